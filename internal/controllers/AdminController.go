package controllers

import (
	"net/http"
	"playtrack/internal/providers"
	"playtrack/internal/services"
)

// AdminController exposes the write operations; routes are token guarded.
type AdminController struct {
	logger    providers.Logger
	ingestion services.IngestionServiceInterface
	summaries services.SummaryServiceInterface
}

type generateResponse struct {
	Created bool `json:"created"`
	Summary any  `json:"summary"`
}

func NewAdminController(logger providers.Logger, ingestion services.IngestionServiceInterface, summaries services.SummaryServiceInterface) *AdminController {
	return &AdminController{
		logger:    logger,
		ingestion: ingestion,
		summaries: summaries,
	}
}

func (ac *AdminController) Ingest(w http.ResponseWriter, r *http.Request) {
	report, err := ac.ingestion.Sync(r.Context())
	if err != nil {
		writeError(w, ac.logger, providers.TypePost, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (ac *AdminController) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	summary, created, err := ac.summaries.GenerateToday(r.Context())
	if err != nil {
		writeError(w, ac.logger, providers.TypePost, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, generateResponse{Created: created, Summary: summary})
}
