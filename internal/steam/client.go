package steam

import (
	"context"
	"fmt"
	"net/http"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/structures"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-resty/resty/v2"
)

const (
	ownedGamesPath = "/IPlayerService/GetOwnedGames/v0001/"
	iconURLFormat  = "https://media.steampowered.com/steamcommunity/public/images/apps/%d/%s.jpg"
)

type ownedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int64  `json:"playtime_forever"`
	ImgIconURL      string `json:"img_icon_url"`
	RTimeLastPlayed int64  `json:"rtime_last_played"`
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []ownedGame `json:"games"`
	} `json:"response"`
}

// Client reads the owned-games library of one Steam account.
type Client struct {
	http    *resty.Client
	apiKey  string
	steamID string
	logger  providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) *Client {
	c := resty.New().
		SetBaseURL(conf.Steam.BaseURL).
		SetTimeout(conf.Steam.Timeout).
		SetRetryCount(conf.Steam.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetJSONUnmarshaler(json.Unmarshal).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http:    c,
		apiKey:  conf.Steam.APIKey,
		steamID: conf.Steam.SteamID,
		logger:  logger,
	}
}

// FetchCurrentReadings returns the account's current cumulative playtime per game.
// Every failure is reported as models.ErrUpstream.
func (c *Client) FetchCurrentReadings(ctx context.Context) ([]models.Reading, error) {
	if c.apiKey == "" || c.steamID == "" {
		return nil, fmt.Errorf("%w: steam api key and steam id must be configured", models.ErrUpstream)
	}

	var body ownedGamesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":                       c.apiKey,
			"steamid":                   c.steamID,
			"include_appinfo":           "true",
			"include_played_free_games": "true",
			"format":                    "json",
		}).
		SetResult(&body).
		Get(ownedGamesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: steam request: %v", models.ErrUpstream, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: steam status %d", models.ErrUpstream, resp.StatusCode())
	}

	readings := make([]models.Reading, 0, len(body.Response.Games))
	for _, g := range body.Response.Games {
		readings = append(readings, toReading(g))
	}
	c.logger.Debugf(providers.TypeSync, "Fetched %d games from steam", len(readings))
	return readings, nil
}

func toReading(g ownedGame) models.Reading {
	r := models.Reading{
		ID:              g.AppID,
		Name:            g.Name,
		PlaytimeMinutes: g.PlaytimeForever,
	}
	if g.ImgIconURL != "" {
		r.IconURL = fmt.Sprintf(iconURLFormat, g.AppID, g.ImgIconURL)
	}
	if g.RTimeLastPlayed > 0 {
		played := time.Unix(g.RTimeLastPlayed, 0).UTC()
		r.LastPlayedAt = &played
	}
	return r
}
