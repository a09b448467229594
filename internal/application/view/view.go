// Package view modela la navegación del cliente como un estado explícito:
// dashboard, detalle de artículo o un modal apilado sobre alguno de ellos.
package view

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition la transición no es válida desde el estado actual.
var ErrInvalidTransition = errors.New("transición de vista inválida")

// Kind tipo de vista.
type Kind string

const (
	KindDashboard  Kind = "dashboard"
	KindItemDetail Kind = "item_detail"
	KindModal      Kind = "modal"
)

// Modal tipo de modal.
type Modal string

const (
	ModalAddItem         Modal = "add_item"
	ModalStockIn         Modal = "stock_in"
	ModalStockOut        Modal = "stock_out"
	ModalEditTransaction Modal = "edit_transaction"
)

// View estado actual de navegación. Solo los campos de su Kind son significativos.
// Parent es la vista bajo un modal (dashboard o detalle); nunca otro modal.
type View struct {
	Kind          Kind   `json:"kind"`
	ItemID        string `json:"item_id,omitempty"`
	Modal         Modal  `json:"modal,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Parent        *View  `json:"parent,omitempty"`
}

// Dashboard vista inicial.
func Dashboard() View {
	return View{Kind: KindDashboard}
}

// OpenItem abre el detalle de un artículo desde el dashboard.
func (v View) OpenItem(itemID string) (View, error) {
	if v.Kind != KindDashboard || itemID == "" {
		return v, fmt.Errorf("%w: abrir artículo desde %s", ErrInvalidTransition, v.Kind)
	}
	return View{Kind: KindItemDetail, ItemID: itemID}, nil
}

// Back vuelve del detalle al dashboard.
func (v View) Back() (View, error) {
	if v.Kind != KindItemDetail {
		return v, fmt.Errorf("%w: volver desde %s", ErrInvalidTransition, v.Kind)
	}
	return Dashboard(), nil
}

// OpenModal apila un modal sobre la vista actual.
// add_item solo desde el dashboard; stock_in/stock_out desde el detalle o el dashboard con
// artículo indicado; edit_transaction requiere el detalle y el id de transacción.
func (v View) OpenModal(m Modal, itemID, transactionID string) (View, error) {
	if v.Kind == KindModal {
		return v, fmt.Errorf("%w: modal sobre modal", ErrInvalidTransition)
	}
	parent := v
	next := View{Kind: KindModal, Modal: m, Parent: &parent}
	switch m {
	case ModalAddItem:
		if v.Kind != KindDashboard {
			return v, fmt.Errorf("%w: %s fuera del dashboard", ErrInvalidTransition, m)
		}
	case ModalStockIn, ModalStockOut:
		if v.Kind == KindItemDetail {
			itemID = v.ItemID
		}
		if itemID == "" {
			return v, fmt.Errorf("%w: %s sin artículo", ErrInvalidTransition, m)
		}
		next.ItemID = itemID
	case ModalEditTransaction:
		if v.Kind != KindItemDetail || transactionID == "" {
			return v, fmt.Errorf("%w: %s requiere detalle y transacción", ErrInvalidTransition, m)
		}
		next.ItemID = v.ItemID
		next.TransactionID = transactionID
	default:
		return v, fmt.Errorf("%w: modal desconocido %q", ErrInvalidTransition, m)
	}
	return next, nil
}

// CloseModal cierra el modal y devuelve la vista que tenía debajo.
func (v View) CloseModal() (View, error) {
	if v.Kind != KindModal || v.Parent == nil {
		return v, fmt.Errorf("%w: cerrar modal desde %s", ErrInvalidTransition, v.Kind)
	}
	return *v.Parent, nil
}

// Underlying devuelve la vista visible bajo un modal, o la misma vista.
func (v View) Underlying() View {
	if v.Kind == KindModal && v.Parent != nil {
		return *v.Parent
	}
	return v
}
