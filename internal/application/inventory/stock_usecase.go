package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/ledger"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// InitialStockNotes nota de la transacción IN sintética que siembra el stock inicial.
const InitialStockNotes = "Stock inicial"

// StockUseCase casos de uso CRUD para artículos. El stock solo cambia vía transacciones.
type StockUseCase struct {
	txRunner TxRunner
	itemRepo repository.StockItemRepository
	metrics  MetricsRecorder
	now      func() time.Time
}

// NewStockUseCase construye el caso de uso. metrics puede ser nil.
func NewStockUseCase(txRunner TxRunner, itemRepo repository.StockItemRepository, metrics MetricsRecorder) *StockUseCase {
	return &StockUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		metrics:  metricsOrNop(metrics),
		now:      time.Now,
	}
}

// Create crea un artículo. Si InitialStock > 0 registra una entrada sintética por esa cantidad,
// de modo que el stock coincida con el libro desde el primer momento.
func (uc *StockUseCase) Create(ctx context.Context, ownerID string, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.Unit)
	if ownerID == "" || name == "" || unit == "" || in.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	now := uc.now()
	item := &entity.StockItem{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		Unit:      unit,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var seed *entity.StockTransaction
	if in.InitialStock > 0 {
		out, err := ledger.ApplyNewTransaction(item, entity.TransactionTypeIN, in.InitialStock)
		if err != nil {
			return nil, err
		}
		item.CurrentStock = out.NewStock
		seed = out.Transaction
		seed.ID = uuid.New().String()
		seed.Notes = InitialStockNotes
		seed.CreatedAt = now
		seed.UpdatedAt = now
	}

	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if seed != nil {
			return txRepo.Create(ctx, seed)
		}
		return nil
	})
	if err != nil {
		uc.metrics.MovementRejected(OpCreate, rejectReason(err))
		return nil, err
	}
	if seed != nil {
		uc.metrics.MovementAccepted(OpCreate, entity.TransactionTypeIN)
	}
	return ToStockItemResponse(item), nil
}

// GetByID obtiene un artículo del usuario.
func (uc *StockUseCase) GetByID(ctx context.Context, ownerID, id string) (*dto.StockItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(item, ownerID); err != nil {
		return nil, err
	}
	return ToStockItemResponse(item), nil
}

// List lista los artículos del usuario con paginación.
func (uc *StockUseCase) List(ctx context.Context, ownerID string, limit, offset int) (*dto.StockItemListResponse, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	list, err := uc.itemRepo.ListByOwner(ctx, ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.itemRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *ToStockItemResponse(i))
	}
	return &dto.StockItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualiza nombre, unidad o precio. No permite modificar el stock.
func (uc *StockUseCase) Update(ctx context.Context, ownerID, id string, in dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	var updated *entity.StockItem
	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, _ repository.StockTransactionRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(item, ownerID); err != nil {
			return err
		}
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.Unit != nil {
			item.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.Price != nil {
			if err := validatePrice(in.Price); err != nil {
				return err
			}
			item.Price = in.Price
		}
		if item.Name == "" || item.Unit == "" {
			return domain.ErrInvalidInput
		}
		item.UpdatedAt = uc.now()
		if err := itemRepo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(updated), nil
}

// Delete elimina el artículo junto con todo su libro de transacciones.
func (uc *StockUseCase) Delete(ctx context.Context, ownerID, id string) error {
	return uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(item, ownerID); err != nil {
			return err
		}
		if err := txRepo.DeleteByItem(ctx, id); err != nil {
			return err
		}
		return itemRepo.Delete(ctx, id)
	})
}

func validatePrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}
