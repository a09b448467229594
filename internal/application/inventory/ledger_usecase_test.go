package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/ledger"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	owner    = "user-1"
	intruder = "user-2"
)

// fakeMetrics cuenta aceptaciones y rechazos por razón.
type fakeMetrics struct {
	mu         sync.Mutex
	accepted   map[string]int
	rejected   map[string]int
	rejectedOp map[string]int
	drift      int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{accepted: map[string]int{}, rejected: map[string]int{}, rejectedOp: map[string]int{}}
}

func (m *fakeMetrics) MovementAccepted(op, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted[op]++
}

func (m *fakeMetrics) MovementRejected(op, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
	m.rejectedOp[op]++
}

func (m *fakeMetrics) DriftDetected(items int) { m.drift = items }

type fixture struct {
	store   *memory.Store
	stock   *inventory.StockUseCase
	ledger  *inventory.LedgerUseCase
	audit   *inventory.AuditUseCase
	metrics *fakeMetrics
}

func newFixture() *fixture {
	s := memory.NewStore()
	m := newFakeMetrics()
	return &fixture{
		store:   s,
		stock:   inventory.NewStockUseCase(s, s.Items(), m),
		ledger:  inventory.NewLedgerUseCase(s, s.Items(), s.Transactions(), m),
		audit:   inventory.NewAuditUseCase(s.Items(), s.Transactions(), m),
		metrics: m,
	}
}

func (f *fixture) createItem(t *testing.T, name string, initial int64) *dto.StockItemResponse {
	t.Helper()
	item, err := f.stock.Create(context.Background(), owner, dto.CreateStockItemRequest{Name: name, Unit: "pcs", InitialStock: initial})
	require.NoError(t, err)
	return item
}

func (f *fixture) currentStock(t *testing.T, itemID string) int64 {
	t.Helper()
	item, err := f.stock.GetByID(context.Background(), owner, itemID)
	require.NoError(t, err)
	return item.CurrentStock
}

// assertConsistent verifica que el stock guardado sea igual a la suma del libro.
func (f *fixture) assertConsistent(t *testing.T, itemID string) {
	t.Helper()
	report, err := f.audit.AuditItem(context.Background(), owner, itemID)
	require.NoError(t, err)
	assert.True(t, report.Consistent, "stock %d != libro %d", report.StoredStock, report.LedgerStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_StockInicialGeneraEntrada(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "Laptop", 100)
	assert.Equal(t, int64(100), item.CurrentStock)

	list, err := f.ledger.ListByItem(context.Background(), owner, item.ID)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, entity.TransactionTypeIN, list.Items[0].Type)
	assert.Equal(t, int64(100), list.Items[0].Quantity)
	assert.Equal(t, inventory.InitialStockNotes, list.Items[0].Notes)
	f.assertConsistent(t, item.ID)
}

func TestCreate_SinStockInicialNoGeneraTransacciones(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "Mouse", 0)

	list, err := f.ledger.ListByItem(context.Background(), owner, item.ID)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	f.assertConsistent(t, item.ID)
}

func TestCreate_ValidaEntrada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.stock.Create(ctx, owner, dto.CreateStockItemRequest{Name: " ", Unit: "pcs"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.stock.Create(ctx, owner, dto.CreateStockItemRequest{Name: "x", Unit: "pcs", InitialStock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salida, edición y eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto_SalidaEdicionEliminacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Laptop", 100)

	out, err := f.ledger.StockOut(ctx, owner, item.ID, dto.StockOutRequest{Quantity: 30, PersonName: "Sarah"})
	require.NoError(t, err)
	assert.Equal(t, int64(70), out.NewStockCount)
	assert.Equal(t, "Sarah", out.Transaction.PersonName)
	f.assertConsistent(t, item.ID)

	edited, err := f.ledger.EditTransaction(ctx, owner, out.Transaction.ID, dto.EditTransactionRequest{Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(50), edited.NewStockCount)
	assert.Equal(t, "Sarah", edited.Transaction.PersonName, "person_name nil conserva el valor")
	f.assertConsistent(t, item.ID)

	deleted, err := f.ledger.DeleteTransaction(ctx, owner, out.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), deleted.NewStockCount)
	assert.Equal(t, int64(100), f.currentStock(t, item.ID))
	f.assertConsistent(t, item.ID)

	// la segunda eliminación no vuelve a tocar el stock
	_, err = f.ledger.DeleteTransaction(ctx, owner, out.Transaction.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(100), f.currentStock(t, item.ID))
}

func TestStockOut_SinStockRechazaYNoPersiste(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Cable", 0)

	_, err := f.ledger.StockOut(ctx, owner, item.ID, dto.StockOutRequest{Quantity: 1, PersonName: "Ana"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *ledger.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(0), stockErr.Available)
	assert.Equal(t, int64(1), stockErr.Requested)

	list, err := f.ledger.ListByItem(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 1, f.metrics.rejected["insufficient_stock"])
}

func TestStockOut_RequierePersona(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "Cable", 10)
	_, err := f.ledger.StockOut(context.Background(), owner, item.ID, dto.StockOutRequest{Quantity: 1, PersonName: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(10), f.currentStock(t, item.ID))
}

func TestEditTransaction_ResultadoNegativoRechazado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Monitor", 10)

	out, err := f.ledger.StockOut(ctx, owner, item.ID, dto.StockOutRequest{Quantity: 5, PersonName: "Luis"})
	require.NoError(t, err)

	_, err = f.ledger.EditTransaction(ctx, owner, out.Transaction.ID, dto.EditTransactionRequest{Quantity: 11})
	assert.ErrorIs(t, err, domain.ErrNegativeStockResult)
	assert.Equal(t, int64(5), f.currentStock(t, item.ID))

	tx, err := f.ledger.GetTransaction(ctx, owner, out.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), tx.Quantity, "la transacción no debe cambiar al rechazar")
}

func TestDeleteTransaction_EntradaConsumidaRechazada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Teclado", 0)

	in, err := f.ledger.StockIn(ctx, owner, item.ID, dto.StockInRequest{Quantity: 10})
	require.NoError(t, err)
	_, err = f.ledger.StockOut(ctx, owner, item.ID, dto.StockOutRequest{Quantity: 8, PersonName: "Marta"})
	require.NoError(t, err)

	_, err = f.ledger.DeleteTransaction(ctx, owner, in.Transaction.ID)
	assert.ErrorIs(t, err, domain.ErrNegativeStockResult)
	assert.Equal(t, int64(2), f.currentStock(t, item.ID))
	f.assertConsistent(t, item.ID)
}

func TestRecord_DespachaPorTipo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Papel", 5)

	res, err := f.ledger.Record(ctx, owner, dto.RecordTransactionRequest{ItemID: item.ID, Type: entity.TransactionTypeIN, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.NewStockCount)

	_, err = f.ledger.Record(ctx, owner, dto.RecordTransactionRequest{ItemID: item.ID, Type: "ADJUST", Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, f.metrics.rejectedOp[inventory.OpRecord])
	assert.Zero(t, f.metrics.rejectedOp[inventory.OpStockIn], "un tipo desconocido no es una entrada rechazada")

	_, err = f.ledger.Record(ctx, owner, dto.RecordTransactionRequest{ItemID: item.ID, Type: entity.TransactionTypeOUT, Quantity: 9, PersonName: "Ana"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	f.assertConsistent(t, item.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Acceso
// ──────────────────────────────────────────────────────────────────────────────

func TestAcceso_OtroUsuarioRechazado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Silla", 4)

	_, err := f.ledger.StockIn(ctx, intruder, item.ID, dto.StockInRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.stock.GetByID(ctx, intruder, item.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	list, err := f.ledger.ListByItem(ctx, owner, item.ID)
	require.NoError(t, err)
	_, err = f.ledger.DeleteTransaction(ctx, intruder, list.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.ledger.StockIn(ctx, owner, "no-existe", dto.StockInRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Artículos
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_NoTocaStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Lapiz", 12)

	name := "Lápiz HB"
	updated, err := f.stock.Update(ctx, owner, item.ID, dto.UpdateStockItemRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, int64(12), updated.CurrentStock)
}

func TestDelete_EliminaLibro(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Goma", 3)
	list, err := f.ledger.ListByItem(ctx, owner, item.ID)
	require.NoError(t, err)

	require.NoError(t, f.stock.Delete(ctx, owner, item.ID))
	_, err = f.stock.GetByID(ctx, owner, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.GetTransaction(ctx, owner, list.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestStockOut_ConcurrenteNoSobregira(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Laptop", 100)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.StockOut(ctx, owner, item.ID, dto.StockOutRequest{Quantity: 15, PersonName: "Equipo"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, accepted)
	assert.Equal(t, 4, rejected)
	assert.Equal(t, int64(10), f.currentStock(t, item.ID))
	f.assertConsistent(t, item.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestAuditAll_ReportaSoloInconsistentes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ok := f.createItem(t, "Bien", 5)
	bad := f.createItem(t, "Mal", 5)

	// corrupción directa del contador, fuera del libro
	require.NoError(t, f.store.Items().UpdateStockCount(ctx, bad.ID, 9))

	reports, err := f.audit.AuditAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, bad.ID, reports[0].ItemID)
	assert.Equal(t, int64(9), reports[0].StoredStock)
	assert.Equal(t, int64(5), reports[0].LedgerStock)
	assert.Equal(t, 1, f.metrics.drift)

	// la auditoría no repara
	assert.Equal(t, int64(9), f.currentStock(t, bad.ID))
	f.assertConsistent(t, ok.ID)
}

func TestListHistory_PaginaPorUsuario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.createItem(t, "A", 1)
	f.createItem(t, "B", 2)
	_, err := f.ledger.StockIn(ctx, owner, a.ID, dto.StockInRequest{Quantity: 4})
	require.NoError(t, err)

	all, err := f.ledger.ListHistory(ctx, owner, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, 20, all.Page.Limit)

	assert.Equal(t, 3, all.Page.Total)

	page, err := f.ledger.ListHistory(ctx, owner, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Page.Total, "total cuenta todas las filas, no solo la página")

	items, err := f.stock.List(ctx, owner, 1, 0)
	require.NoError(t, err)
	assert.Len(t, items.Items, 1)
	assert.Equal(t, 2, items.Page.Total)

	other, err := f.ledger.ListHistory(ctx, intruder, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura bajo lock
// ──────────────────────────────────────────────────────────────────────────────

// lockWaitRunner simula un store con bloqueo de fila: mientras GetForUpdate espera el lock,
// otra tx confirma su cambio (commit) y la espera termina viendo ese estado.
type lockWaitRunner struct {
	store   *memory.Store
	onWait  func(ctx context.Context, itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository)
	waiting bool
}

func (r *lockWaitRunner) Run(ctx context.Context, fn func(repository.StockItemRepository, repository.StockTransactionRepository) error) error {
	return r.store.Run(ctx, func(itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository) error {
		return fn(&lockingItemRepo{StockItemRepository: itemRepo, runner: r, txRepo: txRepo}, txRepo)
	})
}

type lockingItemRepo struct {
	repository.StockItemRepository
	runner *lockWaitRunner
	txRepo repository.StockTransactionRepository
}

func (r *lockingItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	if r.runner.onWait != nil && !r.runner.waiting {
		r.runner.waiting = true
		r.runner.onWait(ctx, r.StockItemRepository, r.txRepo)
	}
	return r.StockItemRepository.GetForUpdate(ctx, id)
}

func TestEditTransaction_ConciliaContraLaTransaccionLeidaConLock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Papel", 100)
	out, err := f.ledger.StockOut(ctx, owner, item.ID, dto.StockOutRequest{Quantity: 30, PersonName: "Sarah"})
	require.NoError(t, err)
	txID := out.Transaction.ID

	// Otra edición (30 → 50) confirma mientras esta espera el lock del artículo.
	runner := &lockWaitRunner{store: f.store, onWait: func(ctx context.Context, itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository) {
		tx, err := txRepo.GetByID(ctx, txID)
		require.NoError(t, err)
		tx.Quantity = 50
		require.NoError(t, txRepo.Update(ctx, tx))
		require.NoError(t, itemRepo.UpdateStockCount(ctx, item.ID, 50))
	}}
	uc := inventory.NewLedgerUseCase(runner, f.store.Items(), f.store.Transactions(), nil)

	res, err := uc.EditTransaction(ctx, owner, txID, dto.EditTransactionRequest{Quantity: 40})
	require.NoError(t, err)
	assert.Equal(t, int64(60), res.NewStockCount)
	assert.Equal(t, int64(60), f.currentStock(t, item.ID))
	f.assertConsistent(t, item.ID)
}

func TestDeleteTransaction_EliminadaMientrasEsperabaLock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.createItem(t, "Papel", 100)
	out, err := f.ledger.StockOut(ctx, owner, item.ID, dto.StockOutRequest{Quantity: 30, PersonName: "Sarah"})
	require.NoError(t, err)
	txID := out.Transaction.ID

	runner := &lockWaitRunner{store: f.store, onWait: func(ctx context.Context, itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository) {
		require.NoError(t, txRepo.Delete(ctx, txID))
		require.NoError(t, itemRepo.UpdateStockCount(ctx, item.ID, 100))
	}}
	uc := inventory.NewLedgerUseCase(runner, f.store.Items(), f.store.Transactions(), nil)

	_, err = uc.DeleteTransaction(ctx, owner, txID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	// el rollback del fake deshace también el cambio simulado; el libro sigue cuadrando
	f.assertConsistent(t, item.ID)
}
