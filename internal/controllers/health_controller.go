package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"playtrack/internal/models"
	"playtrack/internal/services"
	"time"
)

type HealthController struct {
	items     services.ItemServiceInterface
	summaries services.SummaryServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Items         int     `json:"items"`
	LatestSummary string  `json:"latest_summary,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
	}

	count, err := hc.items.Count(r.Context())
	if err != nil {
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Items = count

	latest, err := hc.summaries.Latest(r.Context())
	switch {
	case err == nil:
		resp.LatestSummary = models.FormatDate(latest.Date)
	case !errors.Is(err, models.ErrNotFound):
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(items services.ItemServiceInterface, summaries services.SummaryServiceInterface) *HealthController {
	return &HealthController{
		items:     items,
		summaries: summaries,
		startTime: time.Now(),
	}
}
