// Package report genera exportaciones del libro y del inventario (XLSX y PDF).
package report

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// Formatos de exportación soportados.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// SpreadsheetGenerator genera hojas de cálculo (excelize en producción).
type SpreadsheetGenerator interface {
	ItemLedgerXLSX(ctx context.Context, item *entity.StockItem, txs []*entity.StockTransaction) ([]byte, error)
	InventoryXLSX(ctx context.Context, items []*entity.StockItem) ([]byte, error)
}

// PDFGenerator genera el PDF del libro de un artículo (maroto en producción).
type PDFGenerator interface {
	ItemLedgerPDF(ctx context.Context, item *entity.StockItem, txs []*entity.StockTransaction) ([]byte, error)
}

// File documento generado listo para descargar.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
