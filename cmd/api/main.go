package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/report"
	infraexport "github.com/jhoicas/stock-tracker/internal/infrastructure/export"
	inframetrics "github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stock-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/stock-tracker/internal/interfaces/http"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewStockItemRepository(pool)
	txRepo := postgres.NewStockTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Métricas: nil deja los casos de uso con el recorder nop.
	var recorder *inframetrics.Recorder
	var metricsRecorder inventory.MetricsRecorder
	if cfg.App.MetricsEnabled {
		recorder = inframetrics.NewRecorder("stock_tracker")
		metricsRecorder = recorder
	}

	stockUC := inventory.NewStockUseCase(txRunner, itemRepo, metricsRecorder)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, itemRepo, txRepo, metricsRecorder)
	auditUC := inventory.NewAuditUseCase(itemRepo, txRepo, metricsRecorder)
	dashboardUC := appanalytics.NewDashboardUseCase(itemRepo, txRepo, cfg.Stock.LowThreshold)
	reportUC := report.NewReportUseCase(itemRepo, txRepo, infraexport.NewExcelGenerator(), infrapdf.NewMarotoPDFGenerator())
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Auditoría periódica del libro: solo informa diferencias.
	var sched *scheduler.Scheduler
	if cfg.Audit.Enabled {
		sched = scheduler.New(auditUC, log)
		if err := sched.Start(cfg.Audit.Schedule); err != nil {
			log.Fatal().Err(err).Msg("scheduler")
		}
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{Name: cfg.App.Name}, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Stock Tracker API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	deps := httpRouter.RouterDeps{
		AuthUC:      authUC,
		StockUC:     stockUC,
		LedgerUC:    ledgerUC,
		AuditUC:     auditUC,
		DashboardUC: dashboardUC,
		ReportUC:    reportUC,
		JWTSecret:   cfg.JWT.Secret,
		AppName:     cfg.App.Name,
	}
	if recorder != nil {
		deps.Metrics = recorder.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
