// Package tui es el cliente de terminal del inventario (bubbletea).
//
// La navegación vive en un view.View explícito (dashboard, detalle de artículo o modal)
// en lugar de banderas sueltas; cada tecla produce una transición o un comando contra
// el Backend, y la respuesta vuelve como mensaje a Update.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/view"
)

const requestTimeout = 15 * time.Second

// ── Mensajes ──────────────────────────────────────────────────────────────────

type dashboardLoadedMsg struct {
	items   []dto.StockItemResponse
	summary *dto.DashboardSummaryDTO
	err     error
}

type detailLoadedMsg struct {
	item *dto.StockItemResponse
	txs  []dto.TransactionResponse
	err  error
}

// mutationDoneMsg resultado de crear, registrar, editar o eliminar.
type mutationDoneMsg struct {
	status string
	err    error
}

// ── Modelo ────────────────────────────────────────────────────────────────────

type itemEntry struct {
	item dto.StockItemResponse
}

func (e itemEntry) Title() string { return e.item.Name }
func (e itemEntry) Description() string {
	return fmt.Sprintf("%d %s", e.item.CurrentStock, e.item.Unit)
}
func (e itemEntry) FilterValue() string { return e.item.Name }

// App modelo principal de la TUI.
type App struct {
	backend Backend
	view    view.View

	items   list.Model
	summary *dto.DashboardSummaryDTO

	item     *dto.StockItemResponse
	txs      []dto.TransactionResponse
	txCursor int

	form          *form
	pendingDelete string // id de transacción esperando confirmación

	status string
	err    error

	width  int
	height int
}

// NewApp crea la TUI sobre el backend dado.
func NewApp(backend Backend) *App {
	items := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	items.Title = "Inventario"
	items.SetShowStatusBar(false)
	items.SetFilteringEnabled(false)
	items.SetShowHelp(false)
	return &App{backend: backend, view: view.Dashboard(), items: items}
}

// CurrentView estado de navegación actual.
func (a *App) CurrentView() view.View { return a.view }

// Init carga el dashboard.
func (a *App) Init() tea.Cmd { return a.loadDashboard() }

// Update procesa teclas y respuestas del backend.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.items.SetSize(msg.Width, max(msg.Height-8, 4))
		return a, nil

	case dashboardLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		entries := make([]list.Item, 0, len(msg.items))
		for _, it := range msg.items {
			entries = append(entries, itemEntry{item: it})
		}
		a.summary = msg.summary
		return a, a.items.SetItems(entries)

	case detailLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.item, a.txs = msg.item, msg.txs
		if a.txCursor >= len(a.txs) {
			a.txCursor = max(len(a.txs)-1, 0)
		}
		return a, nil

	case mutationDoneMsg:
		if msg.err != nil {
			// El modal sigue abierto con el error; nada cambió en el servidor.
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.status = msg.status
		if a.view.Kind == view.KindModal {
			a.closeModal()
		}
		return a, a.reload()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.view.Kind {
		case view.KindModal:
			return a.updateModal(msg)
		case view.KindItemDetail:
			return a.updateDetail(msg)
		default:
			return a.updateDashboard(msg)
		}
	}
	return a, nil
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.loadDashboard()
	case "a":
		return a, a.openModal(view.ModalAddItem, "", nil)
	case "enter":
		entry, ok := a.items.SelectedItem().(itemEntry)
		if !ok {
			return a, nil
		}
		next, err := a.view.OpenItem(entry.item.ID)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.view = next
		a.item, a.txs, a.txCursor = &entry.item, nil, 0
		a.err, a.status = nil, ""
		return a, a.loadDetail(entry.item.ID)
	}
	var cmd tea.Cmd
	a.items, cmd = a.items.Update(msg)
	return a, cmd
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "d" {
		a.pendingDelete = ""
	}
	switch key {
	case "q":
		return a, tea.Quit
	case "esc", "backspace":
		next, err := a.view.Back()
		if err != nil {
			a.err = err
			return a, nil
		}
		a.view = next
		a.item, a.txs = nil, nil
		a.err, a.status = nil, ""
		return a, a.loadDashboard()
	case "up", "k":
		if a.txCursor > 0 {
			a.txCursor--
		}
	case "down", "j":
		if a.txCursor < len(a.txs)-1 {
			a.txCursor++
		}
	case "i":
		return a, a.openModal(view.ModalStockIn, a.view.ItemID, nil)
	case "o":
		return a, a.openModal(view.ModalStockOut, a.view.ItemID, nil)
	case "e":
		if tx := a.selectedTx(); tx != nil {
			return a, a.openModal(view.ModalEditTransaction, a.view.ItemID, tx)
		}
	case "d":
		tx := a.selectedTx()
		if tx == nil {
			return a, nil
		}
		if a.pendingDelete != tx.ID {
			a.pendingDelete = tx.ID
			a.status = "pulsa d otra vez para eliminar la transacción"
			return a, nil
		}
		a.pendingDelete = ""
		return a, a.deleteTransaction(tx.ID)
	}
	return a, nil
}

func (a *App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeModal()
		a.err = nil
		return a, nil
	case "tab", "down":
		a.form.move(1)
		return a, nil
	case "shift+tab", "up":
		a.form.move(-1)
		return a, nil
	case "enter":
		return a, a.submit()
	}
	return a, a.form.update(msg)
}

func (a *App) openModal(m view.Modal, itemID string, tx *dto.TransactionResponse) tea.Cmd {
	txID := ""
	if tx != nil {
		txID = tx.ID
	}
	next, err := a.view.OpenModal(m, itemID, txID)
	if err != nil {
		a.err = err
		return nil
	}
	a.view = next
	a.form = newForm(m, tx)
	a.err, a.status = nil, ""
	return nil
}

func (a *App) closeModal() {
	if next, err := a.view.CloseModal(); err == nil {
		a.view = next
	}
	a.form = nil
}

// submit valida el formulario y envía la mutación. Los errores de validación no llegan al backend.
func (a *App) submit() tea.Cmd {
	f, v := a.form, a.view
	switch v.Modal {
	case view.ModalAddItem:
		in, err := f.createItemRequest()
		if err != nil {
			a.err = err
			return nil
		}
		return a.mutate(func(ctx context.Context) (string, error) {
			item, err := a.backend.CreateStock(ctx, in)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("artículo %q creado con %d %s", item.Name, item.CurrentStock, item.Unit), nil
		})
	case view.ModalStockIn:
		q, err := f.quantity()
		if err != nil {
			a.err = err
			return nil
		}
		in := dto.StockInRequest{Quantity: q, Notes: f.value("Notas")}
		return a.mutate(func(ctx context.Context) (string, error) {
			out, err := a.backend.StockIn(ctx, v.ItemID, in)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("entrada registrada, stock %d", out.NewStockCount), nil
		})
	case view.ModalStockOut:
		q, err := f.quantity()
		if err != nil {
			a.err = err
			return nil
		}
		in := dto.StockOutRequest{Quantity: q, PersonName: f.value("Entregado a"), Notes: f.value("Notas")}
		if in.PersonName == "" {
			a.err = errors.New("indica a quién se entregó")
			return nil
		}
		return a.mutate(func(ctx context.Context) (string, error) {
			out, err := a.backend.StockOut(ctx, v.ItemID, in)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("salida registrada, stock %d", out.NewStockCount), nil
		})
	case view.ModalEditTransaction:
		in, err := f.editRequest()
		if err != nil {
			a.err = err
			return nil
		}
		return a.mutate(func(ctx context.Context) (string, error) {
			out, err := a.backend.EditTransaction(ctx, v.TransactionID, in)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("transacción editada, stock %d", out.NewStockCount), nil
		})
	}
	return nil
}

func (a *App) deleteTransaction(txID string) tea.Cmd {
	return a.mutate(func(ctx context.Context) (string, error) {
		out, err := a.backend.DeleteTransaction(ctx, txID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("transacción eliminada, stock %d", out.NewStockCount), nil
	})
}

func (a *App) mutate(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		status, err := fn(ctx)
		return mutationDoneMsg{status: status, err: err}
	}
}

func (a *App) reload() tea.Cmd {
	if v := a.view.Underlying(); v.Kind == view.KindItemDetail {
		return a.loadDetail(v.ItemID)
	}
	return a.loadDashboard()
}

func (a *App) loadDashboard() tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := backend.ListStocks(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}
		summary, err := backend.Dashboard(ctx)
		return dashboardLoadedMsg{items: items, summary: summary, err: err}
	}
}

func (a *App) loadDetail(itemID string) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		item, err := backend.GetStock(ctx, itemID)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		txs, err := backend.ListTransactions(ctx, itemID)
		return detailLoadedMsg{item: item, txs: txs, err: err}
	}
}

func (a *App) selectedTx() *dto.TransactionResponse {
	if a.txCursor < 0 || a.txCursor >= len(a.txs) {
		return nil
	}
	return &a.txs[a.txCursor]
}
