// Package ledger implementa la conciliación entre el stock de un artículo y su libro de
// transacciones (servicio de dominio puro, sin I/O).
//
// Invariante: CurrentStock == Σ IN.Quantity − Σ OUT.Quantity para cada artículo.
// Las funciones reciben una foto del estado y devuelven el nuevo nivel o un error;
// aplicar el resultado de forma atómica es responsabilidad del llamador.
package ledger

import (
	"fmt"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// StockError detalla un rechazo por stock: cuánto había y cuánto se pidió o resultaría.
// Envuelve ErrInsufficientStock o ErrNegativeStockResult (usar errors.Is).
type StockError struct {
	Kind      error
	Available int64
	Requested int64 // cantidad pedida (OUT) o delta que se intentó aplicar
	Result    int64 // nivel que habría quedado
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: disponible %d, solicitado %d", e.Kind.Error(), e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return e.Kind }

// Outcome resultado aceptado de una conciliación.
type Outcome struct {
	NewStock    int64
	Transaction *entity.StockTransaction // nueva o editada; nil al eliminar
	Removed     bool
}

// Edit cambios permitidos sobre una transacción existente. El tipo es inmutable.
// PersonName y Notes nil conservan el valor anterior.
type Edit struct {
	Quantity   int64
	PersonName *string
	Notes      *string
}

// SignedDelta efecto de una transacción sobre el stock: IN → +q, OUT → −q.
func SignedDelta(txType string, quantity int64) int64 {
	if txType == entity.TransactionTypeOUT {
		return -quantity
	}
	return quantity
}

// ValidateType verifica que el tipo sea IN u OUT.
func ValidateType(txType string) error {
	if txType != entity.TransactionTypeIN && txType != entity.TransactionTypeOUT {
		return domain.ErrInvalidInput
	}
	return nil
}

// ValidateQuantity verifica que la cantidad sea un entero positivo.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyNewTransaction calcula el stock tras registrar una entrada o salida.
// Una salida mayor al stock actual se rechaza con ErrInsufficientStock.
func ApplyNewTransaction(item *entity.StockItem, txType string, quantity int64) (Outcome, error) {
	if item == nil {
		return Outcome{}, domain.ErrNotFound
	}
	if err := ValidateType(txType); err != nil {
		return Outcome{}, err
	}
	if err := ValidateQuantity(quantity); err != nil {
		return Outcome{}, err
	}
	if txType == entity.TransactionTypeOUT && quantity > item.CurrentStock {
		return Outcome{}, &StockError{
			Kind:      domain.ErrInsufficientStock,
			Available: item.CurrentStock,
			Requested: quantity,
			Result:    item.CurrentStock - quantity,
		}
	}
	return Outcome{
		NewStock: item.CurrentStock + SignedDelta(txType, quantity),
		Transaction: &entity.StockTransaction{
			ItemID:   item.ID,
			OwnerID:  item.OwnerID,
			Type:     txType,
			Quantity: quantity,
		},
	}, nil
}

// EditTransaction revierte el efecto anterior de la transacción y aplica la nueva cantidad.
// Si el resultado queda por debajo de cero se rechaza con ErrNegativeStockResult.
func EditTransaction(item *entity.StockItem, old *entity.StockTransaction, edit Edit) (Outcome, error) {
	if item == nil || old == nil {
		return Outcome{}, domain.ErrNotFound
	}
	if old.ItemID != item.ID {
		return Outcome{}, domain.ErrInvalidInput
	}
	if err := ValidateQuantity(edit.Quantity); err != nil {
		return Outcome{}, err
	}
	reverted := item.CurrentStock - SignedDelta(old.Type, old.Quantity)
	final := reverted + SignedDelta(old.Type, edit.Quantity)
	if final < 0 {
		return Outcome{}, &StockError{
			Kind:      domain.ErrNegativeStockResult,
			Available: item.CurrentStock,
			Requested: edit.Quantity,
			Result:    final,
		}
	}

	updated := *old
	updated.Quantity = edit.Quantity
	if edit.PersonName != nil {
		updated.PersonName = *edit.PersonName
	}
	if edit.Notes != nil {
		updated.Notes = *edit.Notes
	}
	if !updated.IsOut() {
		updated.PersonName = ""
	}
	return Outcome{NewStock: final, Transaction: &updated}, nil
}

// DeleteTransaction quita el efecto de la transacción del stock.
// Eliminar una entrada ya consumida por salidas posteriores se rechaza con ErrNegativeStockResult.
func DeleteTransaction(item *entity.StockItem, tx *entity.StockTransaction) (Outcome, error) {
	if item == nil || tx == nil {
		return Outcome{}, domain.ErrNotFound
	}
	if tx.ItemID != item.ID {
		return Outcome{}, domain.ErrInvalidInput
	}
	final := item.CurrentStock - SignedDelta(tx.Type, tx.Quantity)
	if final < 0 {
		return Outcome{}, &StockError{
			Kind:      domain.ErrNegativeStockResult,
			Available: item.CurrentStock,
			Requested: tx.Quantity,
			Result:    final,
		}
	}
	return Outcome{NewStock: final, Removed: true}, nil
}
