package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/report"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	StockUC     *inventory.StockUseCase
	LedgerUC    *inventory.LedgerUseCase
	AuditUC     *inventory.AuditUseCase
	DashboardUC *appanalytics.DashboardUseCase
	ReportUC    *report.ReportUseCase
	// Metrics handler de Prometheus; nil no publica /metrics.
	Metrics   nethttp.Handler
	JWTSecret string
	AppName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stocks
	stocks := protected.Group("/stocks")
	stockHandler := NewStockHandler(deps.StockUC, deps.LedgerUC, deps.AuditUC, deps.ReportUC)
	stocks.Get("/", stockHandler.List)
	stocks.Post("/", stockHandler.Create)
	stocks.Get("/:id", stockHandler.GetByID)
	stocks.Put("/:id", stockHandler.Update)
	stocks.Delete("/:id", stockHandler.Delete)
	stocks.Post("/:id/stock-in", stockHandler.StockIn)
	stocks.Post("/:id/stock-out", stockHandler.StockOut)
	stocks.Get("/:id/transactions", stockHandler.Transactions)
	stocks.Get("/:id/audit", stockHandler.Audit)
	stocks.Get("/:id/export", stockHandler.Export)

	// Stock history
	history := protected.Group("/stock-history")
	txHandler := NewTransactionHandler(deps.LedgerUC)
	history.Get("/", txHandler.List)
	history.Post("/", txHandler.Record)
	history.Get("/:id", txHandler.GetByID)
	history.Put("/:id", txHandler.Edit)
	history.Delete("/:id", txHandler.Delete)

	// Dashboard y reportes
	protected.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)
	protected.Get("/reports/inventory", stockHandler.ExportInventory)
}
