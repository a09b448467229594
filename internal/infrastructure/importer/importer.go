// Package importer lee artículos desde CSV (UTF-8 o ISO-8859-1) o XLSX para sembrar el inventario.
//
// Columnas esperadas: nombre, unidad, stock_inicial[, precio]. La primera fila se toma como
// encabezado si su primera celda es "name" o "nombre".
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
)

// Charsets soportados para CSV.
const (
	CharsetUTF8   = "utf-8"
	CharsetLatin1 = "iso-8859-1"
)

// RowError error de una fila concreta (1-based, contando el encabezado).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("fila %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// ReadCSV lee artículos desde r en el charset indicado. Acepta ',' o ';' como separador.
func ReadCSV(r io.Reader, charset string) ([]dto.CreateStockItemRequest, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", CharsetUTF8, "utf8":
	case CharsetLatin1, "iso8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("%w: charset %q", domain.ErrInvalidInput, charset)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("importer: leer: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = detectComma(raw)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importer: csv: %w", err)
	}
	return parseRecords(records)
}

// ReadXLSX lee artículos de la hoja activa de un XLSX.
func ReadXLSX(r io.Reader) ([]dto.CreateStockItemRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("importer: filas xlsx: %w", err)
	}
	return parseRecords(rows)
}

func detectComma(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func parseRecords(records [][]string) ([]dto.CreateStockItemRequest, error) {
	out := make([]dto.CreateStockItemRequest, 0, len(records))
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		if i == 0 && isHeader(rec) {
			continue
		}
		item, err := parseRow(rec)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		out = append(out, item)
	}
	return out, nil
}

func parseRow(rec []string) (dto.CreateStockItemRequest, error) {
	if len(rec) < 3 {
		return dto.CreateStockItemRequest{}, fmt.Errorf("%w: se esperan al menos 3 columnas", domain.ErrInvalidInput)
	}
	name := strings.TrimSpace(rec[0])
	unit := strings.TrimSpace(rec[1])
	if name == "" || unit == "" {
		return dto.CreateStockItemRequest{}, fmt.Errorf("%w: nombre y unidad obligatorios", domain.ErrInvalidInput)
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
	if err != nil || qty < 0 {
		return dto.CreateStockItemRequest{}, fmt.Errorf("%w: stock inicial %q", domain.ErrInvalidInput, rec[2])
	}
	item := dto.CreateStockItemRequest{Name: name, Unit: unit, InitialStock: qty}
	if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
		p, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
		if err != nil || p.IsNegative() {
			return dto.CreateStockItemRequest{}, fmt.Errorf("%w: precio %q", domain.ErrInvalidInput, rec[3])
		}
		item.Price = &p
	}
	return item, nil
}

func isHeader(rec []string) bool {
	h := strings.ToLower(strings.TrimSpace(rec[0]))
	return h == "name" || h == "nombre"
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
