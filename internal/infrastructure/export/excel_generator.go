// Package export implementa report.SpreadsheetGenerator con excelize.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-tracker/internal/application/report"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/ledger"
)

var _ report.SpreadsheetGenerator = (*ExcelGenerator)(nil)

const timeLayout = "2006-01-02 15:04"

// ExcelGenerator genera los XLSX del libro y del inventario.
type ExcelGenerator struct{}

// NewExcelGenerator construye el generador.
func NewExcelGenerator() *ExcelGenerator { return &ExcelGenerator{} }

// ItemLedgerXLSX una fila por transacción (más reciente primero) con el saldo tras cada una,
// y al final el stock guardado frente al calculado por el libro.
func (g *ExcelGenerator) ItemLedgerXLSX(_ context.Context, item *entity.StockItem, txs []*entity.StockTransaction) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Libro"); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	sheet = "Libro"

	title := []interface{}{item.Name, "Unidad: " + item.Unit, "Stock actual", item.CurrentStock}
	if err := f.SetSheetRow(sheet, "A1", &title); err != nil {
		return nil, fmt.Errorf("xlsx: título: %w", err)
	}
	header := []interface{}{"fecha", "tipo", "cantidad", "efecto", "saldo", "persona", "notas"}
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}

	balances := runningBalances(txs)
	row := 3
	for i, t := range txs {
		excelRow := []interface{}{
			t.CreatedAt.Format(timeLayout),
			t.Type,
			t.Quantity,
			ledger.SignedDelta(t.Type, t.Quantity),
			balances[i],
			t.PersonName,
			t.Notes,
		}
		if err := setRow(f, sheet, row, excelRow); err != nil {
			return nil, err
		}
		row++
	}

	d := ledger.Audit(item, txs)
	footer := []interface{}{"Total libro", "", "", "", d.LedgerStock, "Diferencia", d.Difference}
	if err := setRow(f, sheet, row, footer); err != nil {
		return nil, err
	}
	if err := styleHeader(f, sheet, "A2", "G2"); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "F", "G", 24)

	return write(f)
}

// InventoryXLSX una fila por artículo.
func (g *ExcelGenerator) InventoryXLSX(_ context.Context, items []*entity.StockItem) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []interface{}{"id", "nombre", "unidad", "stock", "precio", "actualizado"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	for i, it := range items {
		price := ""
		if it.Price != nil {
			price = it.Price.StringFixed(2)
		}
		excelRow := []interface{}{it.ID, it.Name, it.Unit, it.CurrentStock, price, it.UpdatedAt.Format(timeLayout)}
		if err := setRow(f, sheet, i+2, excelRow); err != nil {
			return nil, err
		}
	}
	if err := styleHeader(f, sheet, "A1", "F1"); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "A", "B", 36)
	return write(f)
}

// runningBalances saldo después de cada transacción; txs viene más reciente primero.
func runningBalances(txs []*entity.StockTransaction) []int64 {
	out := make([]int64, len(txs))
	var balance int64
	for i := len(txs) - 1; i >= 0; i-- {
		balance += ledger.SignedDelta(txs[i].Type, txs[i].Quantity)
		out[i] = balance
	}
	return out
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet, from, to string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func write(f *excelize.File) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
