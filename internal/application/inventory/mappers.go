package inventory

import (
	"errors"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// ToStockItemResponse convierte la entidad a su DTO de salida.
func ToStockItemResponse(i *entity.StockItem) *dto.StockItemResponse {
	if i == nil {
		return nil
	}
	return &dto.StockItemResponse{
		ID:           i.ID,
		Name:         i.Name,
		Unit:         i.Unit,
		CurrentStock: i.CurrentStock,
		Price:        i.Price,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// ToTransactionResponse convierte la entidad a su DTO de salida.
func ToTransactionResponse(t *entity.StockTransaction) *dto.TransactionResponse {
	if t == nil {
		return nil
	}
	return &dto.TransactionResponse{
		ID:         t.ID,
		ItemID:     t.ItemID,
		Type:       t.Type,
		Quantity:   t.Quantity,
		PersonName: t.PersonName,
		Notes:      t.Notes,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// rejectReason etiqueta un error para métricas.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNegativeStockResult):
		return "negative_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}

// checkOwner aplica las reglas de acceso: ausente → ErrNotFound, de otro dueño → ErrUnauthorized.
func checkOwner(item *entity.StockItem, ownerID string) error {
	if item == nil {
		return domain.ErrNotFound
	}
	if item.OwnerID != ownerID {
		return domain.ErrUnauthorized
	}
	return nil
}
