package internal

import (
	"net/http"
	"playtrack/internal/controllers"
	"playtrack/internal/providers"
	"playtrack/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, adminController *controllers.AdminController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider(conf.Admin.Token)

	routers.Get("/summary/latest", http.HandlerFunc(apiController.LatestSummary))
	routers.Get("/summary/history", http.HandlerFunc(apiController.SummaryHistory))
	routers.Get("/top", http.HandlerFunc(apiController.TopItems))
	routers.Get("/trends", http.HandlerFunc(apiController.Trends))
	routers.Get("/streaks", http.HandlerFunc(apiController.Streaks))
	routers.Get("/heatmap", http.HandlerFunc(apiController.Heatmap))
	routers.Get("/compare", http.HandlerFunc(apiController.Compare))
	routers.Get("/items/search", http.HandlerFunc(apiController.SearchItems))
	routers.Get("/items/{id}", http.HandlerFunc(apiController.ItemDetails))

	routers.AdminPost("/admin/ingest", http.HandlerFunc(adminController.Ingest))
	routers.AdminPost("/admin/summary/generate", http.HandlerFunc(adminController.GenerateSummary))
	return routers
}
