package ledger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newItem(stock int64) *entity.StockItem {
	return &entity.StockItem{ID: "item-1", OwnerID: "user-1", Name: "Laptop", Unit: "unidades", CurrentStock: stock}
}

func strPtr(s string) *string { return &s }

// apply registra una transacción y deja el artículo con el nuevo stock, como haría el store.
func apply(t *testing.T, item *entity.StockItem, txs *[]*entity.StockTransaction, txType string, q int64) *entity.StockTransaction {
	t.Helper()
	out, err := ledger.ApplyNewTransaction(item, txType, q)
	require.NoError(t, err)
	item.CurrentStock = out.NewStock
	out.Transaction.ID = "tx-" + string(rune('a'+len(*txs)))
	*txs = append(*txs, out.Transaction)
	return out.Transaction
}

// ──────────────────────────────────────────────────────────────────────────────
// SignedDelta y validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestSignedDelta(t *testing.T) {
	assert.Equal(t, int64(7), ledger.SignedDelta(entity.TransactionTypeIN, 7))
	assert.Equal(t, int64(-7), ledger.SignedDelta(entity.TransactionTypeOUT, 7))
}

func TestValidaciones_RechazanCantidadNoPositivaYTipoDesconocido(t *testing.T) {
	assert.ErrorIs(t, ledger.ValidateQuantity(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.ValidateQuantity(-3), domain.ErrInvalidInput)
	assert.NoError(t, ledger.ValidateQuantity(1))
	assert.ErrorIs(t, ledger.ValidateType("ADJUST"), domain.ErrInvalidInput)
	assert.NoError(t, ledger.ValidateType(entity.TransactionTypeOUT))
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyNewTransaction
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyNewTransaction_EntradaSuma(t *testing.T) {
	out, err := ledger.ApplyNewTransaction(newItem(10), entity.TransactionTypeIN, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), out.NewStock)
	require.NotNil(t, out.Transaction)
	assert.Equal(t, "item-1", out.Transaction.ItemID)
	assert.Equal(t, "user-1", out.Transaction.OwnerID)
	assert.Equal(t, int64(5), out.Transaction.Quantity)
}

func TestApplyNewTransaction_SalidaExactaDejaCero(t *testing.T) {
	out, err := ledger.ApplyNewTransaction(newItem(10), entity.TransactionTypeOUT, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.NewStock)
}

// Stock 0; OUT 1 → rechazado con InsufficientStock y el artículo no cambia.
func TestApplyNewTransaction_SalidaSinStockRechazada(t *testing.T) {
	item := newItem(0)
	_, err := ledger.ApplyNewTransaction(item, entity.TransactionTypeOUT, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *ledger.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(0), stockErr.Available)
	assert.Equal(t, int64(1), stockErr.Requested)
	assert.Equal(t, int64(0), item.CurrentStock, "el reconciliador no debe mutar el artículo")
}

func TestApplyNewTransaction_CantidadInvalida(t *testing.T) {
	_, err := ledger.ApplyNewTransaction(newItem(5), entity.TransactionTypeIN, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// EditTransaction / DeleteTransaction
// ──────────────────────────────────────────────────────────────────────────────

// Stock 100; OUT 30 a "Sarah" → 70; editar a 50 → 50; eliminar → 100.
func TestEjemploCompleto_SalidaEdicionEliminacion(t *testing.T) {
	item := newItem(100)
	var txs []*entity.StockTransaction
	out := apply(t, item, &txs, entity.TransactionTypeOUT, 30)
	out.PersonName = "Sarah"
	assert.Equal(t, int64(70), item.CurrentStock)

	edited, err := ledger.EditTransaction(item, out, ledger.Edit{Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(50), edited.NewStock)
	assert.Equal(t, "Sarah", edited.Transaction.PersonName, "PersonName nil conserva el valor")
	item.CurrentStock = edited.NewStock

	removed, err := ledger.DeleteTransaction(item, edited.Transaction)
	require.NoError(t, err)
	assert.True(t, removed.Removed)
	assert.Nil(t, removed.Transaction)
	assert.Equal(t, int64(100), removed.NewStock)
}

func TestEditTransaction_EditarYRevertirVuelveAlValorOriginal(t *testing.T) {
	item := newItem(0)
	var txs []*entity.StockTransaction
	in := apply(t, item, &txs, entity.TransactionTypeIN, 40)
	apply(t, item, &txs, entity.TransactionTypeOUT, 15)
	before := item.CurrentStock

	first, err := ledger.EditTransaction(item, in, ledger.Edit{Quantity: 60})
	require.NoError(t, err)
	item.CurrentStock = first.NewStock

	back, err := ledger.EditTransaction(item, first.Transaction, ledger.Edit{Quantity: 40})
	require.NoError(t, err)
	assert.Equal(t, before, back.NewStock)
}

func TestEditTransaction_ResultadoNegativoRechazado(t *testing.T) {
	item := newItem(0)
	var txs []*entity.StockTransaction
	in := apply(t, item, &txs, entity.TransactionTypeIN, 20)
	apply(t, item, &txs, entity.TransactionTypeOUT, 15)

	// Reducir la entrada a 10 dejaría 10 - 15 = -5.
	_, err := ledger.EditTransaction(item, in, ledger.Edit{Quantity: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNegativeStockResult)

	var stockErr *ledger.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(-5), stockErr.Result)
}

func TestEditTransaction_SalidaMayorUsaStockLiberado(t *testing.T) {
	item := newItem(0)
	var txs []*entity.StockTransaction
	apply(t, item, &txs, entity.TransactionTypeIN, 10)
	out := apply(t, item, &txs, entity.TransactionTypeOUT, 4)

	// Revertir devuelve 4 unidades; 10 es exactamente lo disponible.
	res, err := ledger.EditTransaction(item, out, ledger.Edit{Quantity: 10, PersonName: strPtr("Ana"), Notes: strPtr("corrección")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NewStock)
	assert.Equal(t, "Ana", res.Transaction.PersonName)
	assert.Equal(t, "corrección", res.Transaction.Notes)
	assert.Equal(t, entity.TransactionTypeOUT, res.Transaction.Type, "el tipo es inmutable")
}

func TestEditTransaction_EntradaIgnoraPersona(t *testing.T) {
	item := newItem(0)
	var txs []*entity.StockTransaction
	in := apply(t, item, &txs, entity.TransactionTypeIN, 10)

	res, err := ledger.EditTransaction(item, in, ledger.Edit{Quantity: 12, PersonName: strPtr("Juan")})
	require.NoError(t, err)
	assert.Empty(t, res.Transaction.PersonName)
	assert.Equal(t, int64(10), in.Quantity, "la transacción original no se modifica")
}

func TestEditTransaction_OtroArticuloRechazado(t *testing.T) {
	tx := &entity.StockTransaction{ID: "t", ItemID: "otro", Type: entity.TransactionTypeIN, Quantity: 1}
	_, err := ledger.EditTransaction(newItem(5), tx, ledger.Edit{Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteTransaction_EntradaConsumidaRechazada(t *testing.T) {
	item := newItem(0)
	var txs []*entity.StockTransaction
	in := apply(t, item, &txs, entity.TransactionTypeIN, 10)
	apply(t, item, &txs, entity.TransactionTypeOUT, 8)

	_, err := ledger.DeleteTransaction(item, in)
	assert.ErrorIs(t, err, domain.ErrNegativeStockResult)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante: stock == Σ IN − Σ OUT después de cada paso aceptado
// ──────────────────────────────────────────────────────────────────────────────

func TestInvariante_SecuenciaDeOperaciones(t *testing.T) {
	item := newItem(0)
	var txs []*entity.StockTransaction
	steps := []struct {
		txType string
		q      int64
	}{
		{entity.TransactionTypeIN, 50},
		{entity.TransactionTypeOUT, 20},
		{entity.TransactionTypeOUT, 45}, // rechazada
		{entity.TransactionTypeIN, 5},
		{entity.TransactionTypeOUT, 35},
		{entity.TransactionTypeOUT, 1}, // rechazada
	}
	for _, s := range steps {
		out, err := ledger.ApplyNewTransaction(item, s.txType, s.q)
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		} else {
			item.CurrentStock = out.NewStock
			txs = append(txs, out.Transaction)
		}
		drift := ledger.Audit(item, txs)
		require.True(t, drift.Consistent(), "stock %d vs libro %d", drift.StoredStock, drift.LedgerStock)
	}
	assert.Equal(t, int64(0), item.CurrentStock)
	assert.Len(t, txs, 4)
}

func TestAudit_DetectaDiferencia(t *testing.T) {
	item := newItem(12)
	txs := []*entity.StockTransaction{
		{ItemID: "item-1", Type: entity.TransactionTypeIN, Quantity: 10},
		{ItemID: "item-1", Type: entity.TransactionTypeOUT, Quantity: 3},
	}
	drift := ledger.Audit(item, txs)
	assert.False(t, drift.Consistent())
	assert.Equal(t, int64(7), drift.LedgerStock)
	assert.Equal(t, int64(5), drift.Difference)
	assert.Equal(t, 2, drift.Transactions)
}
