package controllers

import (
	"net/http"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/services"
)

type ApiController struct {
	logger    providers.Logger
	summaries services.SummaryServiceInterface
	analytics services.AnalyticsServiceInterface
	items     services.ItemServiceInterface
}

func NewApiController(
	logger providers.Logger,
	summaries services.SummaryServiceInterface,
	analytics services.AnalyticsServiceInterface,
	items services.ItemServiceInterface,
) *ApiController {
	return &ApiController{
		logger:    logger,
		summaries: summaries,
		analytics: analytics,
		items:     items,
	}
}

func (ac *ApiController) fail(w http.ResponseWriter, err error) {
	writeError(w, ac.logger, providers.TypeGet, err)
}

func (ac *ApiController) LatestSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := ac.summaries.Latest(r.Context())
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (ac *ApiController) SummaryHistory(w http.ResponseWriter, r *http.Request) {
	start, err := dateParam(r, "start")
	if err != nil {
		ac.fail(w, err)
		return
	}
	end, err := dateParam(r, "end")
	if err != nil {
		ac.fail(w, err)
		return
	}
	limit, err := intParam(r, "limit", services.DefaultHistoryLimit)
	if err != nil {
		ac.fail(w, err)
		return
	}

	rows, err := ac.analytics.History(r.Context(), start, end, limit)
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (ac *ApiController) TopItems(w http.ResponseWriter, r *http.Request) {
	period := models.PeriodWeek
	if raw := r.URL.Query().Get("period"); raw != "" {
		p, err := models.ParsePeriod(raw)
		if err != nil {
			ac.fail(w, err)
			return
		}
		period = p
	}
	page, err := intParam(r, "page", 1)
	if err != nil {
		ac.fail(w, err)
		return
	}
	limit, err := intParam(r, "limit", services.DefaultPageSize)
	if err != nil {
		ac.fail(w, err)
		return
	}

	board, err := ac.analytics.TopItems(r.Context(), period, page, limit)
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (ac *ApiController) Trends(w http.ResponseWriter, r *http.Request) {
	trends, err := ac.analytics.Trends(r.Context())
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (ac *ApiController) Streaks(w http.ResponseWriter, r *http.Request) {
	itemID, err := optionalIDParam(r, "item")
	if err != nil {
		ac.fail(w, err)
		return
	}
	streak, err := ac.analytics.Streaks(r.Context(), itemID)
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

func (ac *ApiController) Heatmap(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", services.DefaultHeatmapDays)
	if err != nil {
		ac.fail(w, err)
		return
	}
	heatmap, err := ac.analytics.Heatmap(r.Context(), days)
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heatmap)
}

func (ac *ApiController) Compare(w http.ResponseWriter, r *http.Request) {
	ids, err := idListParam(r, "ids")
	if err != nil {
		ac.fail(w, err)
		return
	}
	start, err := dateParam(r, "start")
	if err != nil {
		ac.fail(w, err)
		return
	}
	end, err := dateParam(r, "end")
	if err != nil {
		ac.fail(w, err)
		return
	}

	cmp, err := ac.analytics.Compare(r.Context(), ids, start, end)
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (ac *ApiController) SearchItems(w http.ResponseWriter, r *http.Request) {
	items, err := ac.items.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (ac *ApiController) ItemDetails(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r.PathValue("id"), "id")
	if err != nil {
		ac.fail(w, err)
		return
	}
	days, err := intParam(r, "days", services.DefaultDetailsDays)
	if err != nil {
		ac.fail(w, err)
		return
	}

	details, err := ac.items.Details(r.Context(), id, days)
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
