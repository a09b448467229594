package repository

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// StockTransactionRepository define el puerto de persistencia para el libro de transacciones.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	// ListByItem devuelve las transacciones del artículo, más recientes primero.
	ListByItem(ctx context.Context, itemID string) ([]*entity.StockTransaction, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.StockTransaction, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// Update actualiza cantidad, persona y notas.
	Update(ctx context.Context, tx *entity.StockTransaction) error
	Delete(ctx context.Context, id string) error
	DeleteByItem(ctx context.Context, itemID string) error
}
