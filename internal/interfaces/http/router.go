package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/alerts"
	"github.com/jhoicas/Almacen-api/internal/application/reports"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/application/tenant"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Resolver  *tenant.Resolver
	LedgerUC  *stock.LedgerUseCase
	AlertsUC  *alerts.UseCase
	ReportsUC *reports.UseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas las rutas de negocio requieren
// Bearer Token; la identidad (email) delimita el tenant de cada request.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", IdentityMiddleware(deps.JWTSecret, deps.Resolver))

	// Stock ledger (protegido)
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stockGroup.Post("/replenish", stockHandler.Replenish)
	stockGroup.Post("/withdraw", stockHandler.Withdraw)
	stockGroup.Get("/transactions", stockHandler.ListTransactions)

	// Alertas (protegido)
	alertGroup := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertsUC)
	alertGroup.Get("/", alertHandler.ListActive)
	alertGroup.Get("/count", alertHandler.Count)
	alertGroup.Post("/reconcile", alertHandler.Reconcile)
	alertGroup.Patch("/:id/resolve", alertHandler.Resolve)

	// Configuración de alertas por producto (protegido)
	api.Put("/products/:id/alert-settings", alertHandler.UpdateSettings)

	// Reportes (protegido)
	reportGroup := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportGroup.Get("/overview", reportHandler.Overview)
	reportGroup.Get("/category-distribution", reportHandler.CategoryDistribution)
	reportGroup.Get("/stock-summary", reportHandler.StockSummary)
	reportGroup.Get("/stock-summary/pdf", reportHandler.ExportPDF)
	reportGroup.Post("/generate", reportHandler.Generate)
}
