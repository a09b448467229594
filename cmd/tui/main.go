// tui cliente de terminal del inventario.
//
// Uso:
//
//	go run ./cmd/tui --email yo@empresa.com --password secreto   # contra la API (API_BASE_URL)
//	go run ./cmd/tui --local                                     # en memoria, sin servidor
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/stock-tracker/internal/interfaces/tui"
	"github.com/jhoicas/stock-tracker/pkg/client"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

func main() {
	local := flag.Bool("local", false, "usar un inventario en memoria en lugar de la API")
	baseURL := flag.String("url", "", "URL base de la API (por defecto API_BASE_URL)")
	email := flag.String("email", "", "email para iniciar sesión")
	password := flag.String("password", "", "contraseña para iniciar sesión")
	logFile := flag.String("log", "tui.log", "archivo de log")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "abrir log: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	log := logger.New(logger.Config{Env: "production", Level: cfg.App.LogLevel, Output: f}).Component("tui")

	var backend tui.Backend
	if *local {
		store := memory.NewStore()
		backend = tui.NewLocalBackend("local",
			inventory.NewStockUseCase(store, store.Items(), nil),
			inventory.NewLedgerUseCase(store, store.Items(), store.Transactions(), nil),
			appanalytics.NewDashboardUseCase(store.Items(), store.Transactions(), cfg.Stock.LowThreshold),
		)
		log.Info().Msg("modo local en memoria")
	} else {
		url := cfg.Client.BaseURL
		if *baseURL != "" {
			url = *baseURL
		}
		c := client.New(client.Config{BaseURL: url, Token: cfg.Client.Token})
		if *email != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			_, err := c.Login(ctx, *email, *password)
			cancel()
			if err != nil {
				fmt.Fprintf(os.Stderr, "iniciar sesión: %v\n", err)
				os.Exit(1)
			}
		}
		backend = c
		log.Info().Str("url", url).Msg("conectado a la API")
	}

	if _, err := tea.NewProgram(tui.NewApp(backend), tea.WithAltScreen()).Run(); err != nil {
		log.Error().Err(err).Msg("tui finalizada con error")
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}
