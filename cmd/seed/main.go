// seed carga artículos iniciales desde un CSV o XLSX para un usuario existente.
//
// Uso: go run ./cmd/seed --email yo@empresa.com --file articulos.csv [--charset iso-8859-1] [--dry-run]
//
// Columnas: nombre, unidad, stock_inicial[, precio]. Cada artículo con stock inicial > 0
// queda con su transacción IN "Stock inicial", igual que al crearlo por la API.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/importer"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

func main() {
	file := flag.StringP("file", "f", "", "archivo CSV o XLSX con los artículos")
	email := flag.StringP("email", "e", "", "email del dueño de los artículos")
	charset := flag.String("charset", importer.CharsetUTF8, "charset del CSV: utf-8 o iso-8859-1")
	dryRun := flag.Bool("dry-run", false, "solo validar el archivo, sin escribir")
	flag.Parse()

	if *file == "" || (*email == "" && !*dryRun) {
		fmt.Fprintln(os.Stderr, "uso: seed --email <email> --file <articulos.csv|xlsx>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	items, err := readItems(*file, *charset)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("leer archivo")
	}
	log.Info().Int("items", len(items)).Str("file", *file).Msg("archivo leído")
	if *dryRun {
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	owner, err := postgres.NewUserRepository(pool).GetByEmail(ctx, *email)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuario")
	}
	if owner == nil {
		log.Fatal().Str("email", *email).Msg("usuario no registrado")
	}

	stocks := inventory.NewStockUseCase(postgres.NewTxRunner(pool), postgres.NewStockItemRepository(pool), nil)
	created := 0
	for i, in := range items {
		item, err := stocks.Create(ctx, owner.ID, in)
		if err != nil {
			log.Error().Err(err).Int("row", i+1).Str("name", in.Name).Msg("crear artículo")
			continue
		}
		created++
		log.Debug().Str("id", item.ID).Str("name", item.Name).Int64("stock", item.CurrentStock).Msg("artículo creado")
	}
	log.Info().Int("created", created).Int("failed", len(items)-created).Msg("seed terminado")
	if created < len(items) {
		os.Exit(1)
	}
}

func readItems(path, charset string) ([]dto.CreateStockItemRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return importer.ReadXLSX(f)
	}
	return importer.ReadCSV(f, charset)
}
