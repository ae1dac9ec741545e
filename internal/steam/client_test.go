package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"playtrack/internal/models"
	"playtrack/internal/structures"
	"playtrack/internal/testutil"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string, retries int) *Client {
	conf := &structures.Config{Steam: structures.SteamConfig{
		BaseURL:    url,
		APIKey:     "key",
		SteamID:    "7656",
		Timeout:    2 * time.Second,
		RetryCount: retries,
	}}
	return NewClient(conf, &testutil.MockLogger{})
}

func TestClient_FetchCurrentReadings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ownedGamesPath, r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		assert.Equal(t, "7656", r.URL.Query().Get("steamid"))
		assert.Equal(t, "true", r.URL.Query().Get("include_appinfo"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":{"game_count":2,"games":[
			{"appid":620,"name":"Portal 2","playtime_forever":1234,"img_icon_url":"abc","rtime_last_played":1700000000},
			{"appid":70,"playtime_forever":0}
		]}}`))
	}))
	defer srv.Close()

	readings, err := testClient(srv.URL, 0).FetchCurrentReadings(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 2)

	assert.Equal(t, int64(620), readings[0].ID)
	assert.Equal(t, "Portal 2", readings[0].Name)
	assert.Equal(t, int64(1234), readings[0].PlaytimeMinutes)
	assert.Equal(t, "https://media.steampowered.com/steamcommunity/public/images/apps/620/abc.jpg", readings[0].IconURL)
	require.NotNil(t, readings[0].LastPlayedAt)
	assert.Equal(t, int64(1700000000), readings[0].LastPlayedAt.Unix())

	assert.Empty(t, readings[1].Name)
	assert.Empty(t, readings[1].IconURL)
	assert.Nil(t, readings[1].LastPlayedAt)
}

func TestClient_ServerErrorIsUpstream(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 1).FetchCurrentReadings(context.Background())
	assert.ErrorIs(t, err, models.ErrUpstream)
	assert.Equal(t, int32(2), calls.Load(), "one retry")
}

func TestClient_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 0).FetchCurrentReadings(context.Background())
	assert.ErrorIs(t, err, models.ErrUpstream)
}

func TestClient_MissingCredentials(t *testing.T) {
	c := NewClient(&structures.Config{}, &testutil.MockLogger{})
	_, err := c.FetchCurrentReadings(context.Background())
	assert.ErrorIs(t, err, models.ErrUpstream)
}
