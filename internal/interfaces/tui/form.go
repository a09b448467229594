package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/view"
)

// form campos de texto de un modal; focus es el índice del campo activo.
type form struct {
	modal  view.Modal
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(modal view.Modal, tx *dto.TransactionResponse) *form {
	f := &form{modal: modal}
	switch modal {
	case view.ModalAddItem:
		f.add("Nombre", "")
		f.add("Unidad", "unidades")
		f.add("Stock inicial", "0")
		f.add("Precio (opcional)", "")
	case view.ModalStockIn:
		f.add("Cantidad", "")
		f.add("Notas", "")
	case view.ModalStockOut:
		f.add("Cantidad", "")
		f.add("Entregado a", "")
		f.add("Notas", "")
	case view.ModalEditTransaction:
		f.add("Cantidad", strconv.FormatInt(tx.Quantity, 10))
		if tx.Type == "OUT" {
			f.add("Entregado a", tx.PersonName)
		}
		f.add("Notas", tx.Notes)
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) add(label, value string) {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 120
	in.SetValue(value)
	f.labels = append(f.labels, label)
	f.inputs = append(f.inputs, in)
}

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// value devuelve el texto del campo con la etiqueta dada.
func (f *form) value(label string) string {
	for i, l := range f.labels {
		if l == label {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

func (f *form) has(label string) bool {
	for _, l := range f.labels {
		if l == label {
			return true
		}
	}
	return false
}

// quantity valida que la cantidad sea un entero positivo antes de llamar a la API.
func (f *form) quantity() (int64, error) {
	q, err := strconv.ParseInt(f.value("Cantidad"), 10, 64)
	if err != nil || q <= 0 {
		return 0, fmt.Errorf("la cantidad debe ser un entero positivo")
	}
	return q, nil
}

func (f *form) createItemRequest() (dto.CreateStockItemRequest, error) {
	in := dto.CreateStockItemRequest{Name: f.value("Nombre"), Unit: f.value("Unidad")}
	if in.Name == "" || in.Unit == "" {
		return in, fmt.Errorf("nombre y unidad son obligatorios")
	}
	if s := f.value("Stock inicial"); s != "" {
		q, err := strconv.ParseInt(s, 10, 64)
		if err != nil || q < 0 {
			return in, fmt.Errorf("el stock inicial debe ser un entero >= 0")
		}
		in.InitialStock = q
	}
	if s := f.value("Precio (opcional)"); s != "" {
		p, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil || p.IsNegative() {
			return in, fmt.Errorf("precio inválido")
		}
		in.Price = &p
	}
	return in, nil
}

func (f *form) editRequest() (dto.EditTransactionRequest, error) {
	q, err := f.quantity()
	if err != nil {
		return dto.EditTransactionRequest{}, err
	}
	notes := f.value("Notas")
	in := dto.EditTransactionRequest{Quantity: q, Notes: &notes}
	if f.has("Entregado a") {
		person := f.value("Entregado a")
		if person == "" {
			return in, fmt.Errorf("indica a quién se entregó")
		}
		in.PersonName = &person
	}
	return in, nil
}

func (f *form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := labelStyle.Render(f.labels[i] + ":")
		if i == f.focus {
			label = focusStyle.Render("› " + f.labels[i] + ":")
		}
		fmt.Fprintf(&b, "%s %s\n", label, in.View())
	}
	return b.String()
}
