// Package pdf implementa la representación en PDF del libro de un artículo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del artículo + unidad │ Stock actual + fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cant. | Saldo | Persona | Notas       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Saldo del libro / Diferencia  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-tracker/internal/application/report"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/ledger"
)

var _ report.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// ItemLedgerPDF genera el PDF del libro y devuelve sus bytes. txs viene más reciente primero.
func (g *MarotoPDFGenerator) ItemLedgerPDF(
	_ context.Context,
	item *entity.StockItem,
	txs []*entity.StockTransaction,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Libro de stock - "+item.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(item, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(txs)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(item, txs))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + unidad (izq) y stock actual + fecha de emisión (der).
func headerRow(item *entity.StockItem, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(item.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Unidad: "+item.Unit, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("STOCK ACTUAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(formatUnits(item.CurrentStock), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Saldo", 2, align.Right),
		h("Persona", 3, align.Left),
		h("Notas", 3, align.Left),
	)
}

// tableRows: una fila por transacción con el saldo tras aplicarla.
func tableRows(txs []*entity.StockTransaction) []core.Row {
	balances := make([]int64, len(txs))
	var balance int64
	for i := len(txs) - 1; i >= 0; i-- {
		balance += ledger.SignedDelta(txs[i].Type, txs[i].Quantity)
		balances[i] = balance
	}

	result := make([]core.Row, 0, len(txs))
	for i, t := range txs {
		cell := props.Text{Size: 8, Top: 1, Left: 1, Right: 1}
		right := cell
		right.Align = align.Right
		center := cell
		center.Align = align.Center

		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(t.CreatedAt.Format("02/01/2006 15:04"), cell)),
			col.New(1).Add(text.New(t.Type, center)),
			col.New(1).Add(text.New(formatUnits(t.Quantity), right)),
			col.New(2).Add(text.New(formatUnits(balances[i]), right)),
			col.New(3).Add(text.New(nonEmpty(t.PersonName, "—"), cell)),
			col.New(3).Add(text.New(nonEmpty(t.Notes, "—"), cell)),
		))
	}
	return result
}

// totalsRow: sumas por tipo y saldo del libro; la diferencia se resalta si no es cero.
func totalsRow(item *entity.StockItem, txs []*entity.StockTransaction) core.Row {
	var in, out int64
	for _, t := range txs {
		if t.IsOut() {
			out += t.Quantity
		} else {
			in += t.Quantity
		}
	}
	d := ledger.Audit(item, txs)

	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	diffProps := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}
	if !d.Consistent() {
		diffProps.Color = colorAlert
	}

	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Entradas:"),
			label("Salidas:"),
			label("Saldo del libro:"),
			label("Diferencia:"),
		),
		col.New(3).Add(
			value(formatUnits(in)),
			value(formatUnits(out)),
			value(formatUnits(d.LedgerStock)),
			text.New(strconv.FormatInt(d.Difference, 10), diffProps),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatUnits inserta puntos de miles. Ej: 25000 → "25.000", -1200 → "-1.200"
func formatUnits(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
