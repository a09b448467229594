package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/memory"
)

func TestStore_RunRestauraEstadoSiFalla(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Items().Create(ctx, &entity.StockItem{ID: "i1", OwnerID: "u1", Name: "Tornillos", Unit: "pcs", CurrentStock: 10}))

	boom := errors.New("boom")
	err := s.Run(ctx, func(items repository.StockItemRepository, txs repository.StockTransactionRepository) error {
		require.NoError(t, items.UpdateStockCount(ctx, "i1", 3))
		require.NoError(t, txs.Create(ctx, &entity.StockTransaction{ID: "t1", ItemID: "i1", OwnerID: "u1", Type: entity.TransactionTypeOUT, Quantity: 7}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	item, err := s.Items().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.CurrentStock)
	tx, err := s.Transactions().GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestStore_ListByItemMasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Items().Create(ctx, &entity.StockItem{ID: "i1", OwnerID: "u1", Name: "Cables", Unit: "m"}))

	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Transactions().Create(ctx, &entity.StockTransaction{
			ID: id, ItemID: "i1", OwnerID: "u1", Type: entity.TransactionTypeIN, Quantity: 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// misma marca de tiempo: gana la última insertada
	require.NoError(t, s.Transactions().Create(ctx, &entity.StockTransaction{
		ID: "d", ItemID: "i1", OwnerID: "u1", Type: entity.TransactionTypeIN, Quantity: 1, CreatedAt: base.Add(2 * time.Minute),
	}))

	list, err := s.Transactions().ListByItem(ctx, "i1")
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, tx := range list {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids)
}

func TestStore_GetByIDInexistente(t *testing.T) {
	s := memory.NewStore()
	item, err := s.Items().GetByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, item)
}
