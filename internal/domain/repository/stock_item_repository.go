package repository

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// StockItemRepository define el puerto de persistencia para StockItem (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el artículo no existe.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.StockItem, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	ListAll(ctx context.Context) ([]*entity.StockItem, error)
	// Update actualiza nombre, unidad y precio. No toca CurrentStock.
	Update(ctx context.Context, item *entity.StockItem) error
	UpdateStockCount(ctx context.Context, id string, newCount int64) error
	Delete(ctx context.Context, id string) error
}
