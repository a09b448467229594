package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/stock-tracker/internal/application/view"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00467F"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00A2E8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D03030"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E8B57"))
	inStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E8B57"))
	outStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C06000"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#00467F")).Padding(1, 2)
)

// View dibuja la vista actual; un modal se dibuja debajo de la vista que lo abrió.
func (a *App) View() string {
	var b strings.Builder
	switch a.view.Underlying().Kind {
	case view.KindItemDetail:
		b.WriteString(a.detailView())
	default:
		b.WriteString(a.dashboardView())
	}
	if a.view.Kind == view.KindModal && a.form != nil {
		b.WriteString("\n")
		b.WriteString(modalStyle.Render(titleStyle.Render(modalTitle(a.view.Modal)) + "\n\n" + a.form.view()))
		b.WriteString("\n" + helpStyle.Render("tab: siguiente campo · enter: guardar · esc: cancelar"))
	}
	if a.err != nil {
		b.WriteString("\n" + errorStyle.Render("✗ "+a.err.Error()))
	}
	if a.status != "" {
		b.WriteString("\n" + statusStyle.Render(a.status))
	}
	return b.String() + "\n"
}

func (a *App) dashboardView() string {
	var b strings.Builder
	if s := a.summary; s != nil {
		fmt.Fprintf(&b, "%s  artículos: %d · unidades: %d · stock bajo (<%d): %d\n",
			titleStyle.Render(s.DateLabel), s.TotalItems, s.TotalUnits, s.LowStockThreshold, s.LowStockCount)
		fmt.Fprintf(&b, "%s entradas del mes: %d · salidas del mes: %d\n\n",
			labelStyle.Render("·"), s.MonthUnitsIn, s.MonthUnitsOut)
	}
	b.WriteString(a.items.View())
	b.WriteString("\n" + helpStyle.Render("enter: abrir · a: nuevo artículo · r: refrescar · q: salir"))
	return b.String()
}

func (a *App) detailView() string {
	var b strings.Builder
	if a.item != nil {
		fmt.Fprintf(&b, "%s  %d %s", titleStyle.Render(a.item.Name), a.item.CurrentStock, a.item.Unit)
		if a.item.Price != nil {
			fmt.Fprintf(&b, " · precio %s", a.item.Price.StringFixed(2))
		}
		b.WriteString("\n\n")
	}
	if len(a.txs) == 0 {
		b.WriteString(labelStyle.Render("sin transacciones") + "\n")
	}
	for i, t := range a.txs {
		cursor := "  "
		if i == a.txCursor {
			cursor = focusStyle.Render("› ")
		}
		kind := inStyle.Render(fmt.Sprintf("+%d", t.Quantity))
		if t.Type == "OUT" {
			kind = outStyle.Render(fmt.Sprintf("-%d", t.Quantity))
		}
		line := fmt.Sprintf("%s%s  %-6s", cursor, t.CreatedAt.Format("02/01/2006 15:04"), kind)
		if t.PersonName != "" {
			line += "  → " + t.PersonName
		}
		if t.Notes != "" {
			line += "  " + labelStyle.Render(t.Notes)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("i: entrada · o: salida · e: editar · d: eliminar · esc: volver · q: salir"))
	return b.String()
}

func modalTitle(m view.Modal) string {
	switch m {
	case view.ModalAddItem:
		return "Nuevo artículo"
	case view.ModalStockIn:
		return "Registrar entrada"
	case view.ModalStockOut:
		return "Registrar salida"
	case view.ModalEditTransaction:
		return "Editar transacción"
	}
	return string(m)
}
