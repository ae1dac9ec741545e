package di

import (
	"playtrack/internal/providers"
	"playtrack/internal/services"
	"playtrack/internal/structures"
)

// Tools carries the services the one-shot CLI commands run against.
type Tools struct {
	Config    *structures.Config
	Logger    providers.Logger
	Ingestion services.IngestionServiceInterface
	Summaries services.SummaryServiceInterface
	Simulator services.SimulatorInterface
}
