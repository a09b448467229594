package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/ledger"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// LedgerUseCase registra, edita y elimina transacciones de stock.
// Cada mutación bloquea el artículo, concilia con ledger y persiste stock + transacción en la misma tx.
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.StockItemRepository
	txRepo   repository.StockTransactionRepository
	metrics  MetricsRecorder
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. metrics puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.StockItemRepository,
	txRepo repository.StockTransactionRepository,
	metrics MetricsRecorder,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		txRepo:   txRepo,
		metrics:  metricsOrNop(metrics),
		now:      time.Now,
	}
}

// StockIn registra una entrada.
func (uc *LedgerUseCase) StockIn(ctx context.Context, ownerID, itemID string, in dto.StockInRequest) (*dto.MovementResponse, error) {
	return uc.record(ctx, OpStockIn, ownerID, itemID, entity.TransactionTypeIN, in.Quantity, "", in.Notes)
}

// StockOut registra una salida hacia una persona. Rechaza con ErrInsufficientStock si no alcanza.
func (uc *LedgerUseCase) StockOut(ctx context.Context, ownerID, itemID string, in dto.StockOutRequest) (*dto.MovementResponse, error) {
	return uc.record(ctx, OpStockOut, ownerID, itemID, entity.TransactionTypeOUT, in.Quantity, in.PersonName, in.Notes)
}

// Record registra una transacción genérica (type IN u OUT) sobre el artículo indicado.
func (uc *LedgerUseCase) Record(ctx context.Context, ownerID string, in dto.RecordTransactionRequest) (*dto.MovementResponse, error) {
	switch in.Type {
	case entity.TransactionTypeIN:
		return uc.StockIn(ctx, ownerID, in.ItemID, dto.StockInRequest{Quantity: in.Quantity, Notes: in.Notes})
	case entity.TransactionTypeOUT:
		return uc.StockOut(ctx, ownerID, in.ItemID, dto.StockOutRequest{Quantity: in.Quantity, PersonName: in.PersonName, Notes: in.Notes})
	}
	uc.metrics.MovementRejected(OpRecord, rejectReason(domain.ErrInvalidInput))
	return nil, domain.ErrInvalidInput
}

func (uc *LedgerUseCase) record(ctx context.Context, op, ownerID, itemID, txType string, quantity int64, personName, notes string) (*dto.MovementResponse, error) {
	personName = strings.TrimSpace(personName)
	if itemID == "" || ledger.ValidateQuantity(quantity) != nil || (txType == entity.TransactionTypeOUT && personName == "") {
		uc.metrics.MovementRejected(op, rejectReason(domain.ErrInvalidInput))
		return nil, domain.ErrInvalidInput
	}

	var resp *dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if err := checkOwner(item, ownerID); err != nil {
			return err
		}
		out, err := ledger.ApplyNewTransaction(item, txType, quantity)
		if err != nil {
			return err
		}

		now := uc.now()
		tx := out.Transaction
		tx.ID = uuid.New().String()
		tx.PersonName = personName
		tx.Notes = strings.TrimSpace(notes)
		tx.CreatedAt = now
		tx.UpdatedAt = now
		if txType == entity.TransactionTypeIN {
			tx.PersonName = ""
		}

		if err := itemRepo.UpdateStockCount(ctx, item.ID, out.NewStock); err != nil {
			return err
		}
		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}
		resp = &dto.MovementResponse{ItemID: item.ID, NewStockCount: out.NewStock, Transaction: ToTransactionResponse(tx)}
		return nil
	})
	if err != nil {
		uc.metrics.MovementRejected(op, rejectReason(err))
		return nil, err
	}
	uc.metrics.MovementAccepted(op, txType)
	return resp, nil
}

// EditTransaction cambia cantidad, persona o notas de una transacción existente.
// El stock se recalcula revirtiendo el efecto anterior; un resultado negativo se rechaza.
func (uc *LedgerUseCase) EditTransaction(ctx context.Context, ownerID, txID string, in dto.EditTransactionRequest) (*dto.MovementResponse, error) {
	if ledger.ValidateQuantity(in.Quantity) != nil {
		uc.metrics.MovementRejected(OpEdit, rejectReason(domain.ErrInvalidInput))
		return nil, domain.ErrInvalidInput
	}

	var resp *dto.MovementResponse
	var txType string
	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository) error {
		item, old, err := loadOwnedTransaction(ctx, itemRepo, txRepo, ownerID, txID)
		if err != nil {
			return err
		}
		txType = old.Type

		edit := ledger.Edit{Quantity: in.Quantity, Notes: trimPtr(in.Notes), PersonName: trimPtr(in.PersonName)}
		if old.IsOut() && edit.PersonName != nil && *edit.PersonName == "" {
			return domain.ErrInvalidInput
		}
		out, err := ledger.EditTransaction(item, old, edit)
		if err != nil {
			return err
		}

		updated := out.Transaction
		updated.UpdatedAt = uc.now()
		if err := txRepo.Update(ctx, updated); err != nil {
			return err
		}
		if err := itemRepo.UpdateStockCount(ctx, item.ID, out.NewStock); err != nil {
			return err
		}
		resp = &dto.MovementResponse{ItemID: item.ID, NewStockCount: out.NewStock, Transaction: ToTransactionResponse(updated)}
		return nil
	})
	if err != nil {
		uc.metrics.MovementRejected(OpEdit, rejectReason(err))
		return nil, err
	}
	uc.metrics.MovementAccepted(OpEdit, txType)
	return resp, nil
}

// DeleteTransaction elimina una transacción y quita su efecto del stock.
// Una segunda eliminación de la misma transacción devuelve ErrNotFound sin tocar el stock.
func (uc *LedgerUseCase) DeleteTransaction(ctx context.Context, ownerID, txID string) (*dto.MovementResponse, error) {
	var resp *dto.MovementResponse
	var txType string
	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository) error {
		item, tx, err := loadOwnedTransaction(ctx, itemRepo, txRepo, ownerID, txID)
		if err != nil {
			return err
		}
		txType = tx.Type
		out, err := ledger.DeleteTransaction(item, tx)
		if err != nil {
			return err
		}
		if err := txRepo.Delete(ctx, tx.ID); err != nil {
			return err
		}
		if err := itemRepo.UpdateStockCount(ctx, item.ID, out.NewStock); err != nil {
			return err
		}
		resp = &dto.MovementResponse{ItemID: item.ID, NewStockCount: out.NewStock}
		return nil
	})
	if err != nil {
		uc.metrics.MovementRejected(OpDelete, rejectReason(err))
		return nil, err
	}
	uc.metrics.MovementAccepted(OpDelete, txType)
	return resp, nil
}

// GetTransaction obtiene una transacción del usuario.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, ownerID, txID string) (*dto.TransactionResponse, error) {
	tx, err := uc.txRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if tx.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	return ToTransactionResponse(tx), nil
}

// ListByItem devuelve el libro del artículo ordenado por fecha descendente.
func (uc *LedgerUseCase) ListByItem(ctx context.Context, ownerID, itemID string) (*dto.TransactionListResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(item, ownerID); err != nil {
		return nil, err
	}
	list, err := uc.txRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *ToTransactionResponse(t))
	}
	return &dto.TransactionListResponse{Items: items}, nil
}

// ListHistory lista todas las transacciones del usuario (más recientes primero).
func (uc *LedgerUseCase) ListHistory(ctx context.Context, ownerID string, limit, offset int) (*dto.TransactionListResponse, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	list, err := uc.txRepo.ListByOwner(ctx, ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.txRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *ToTransactionResponse(t))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  &dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// loadOwnedTransaction bloquea el artículo de la transacción y la vuelve a leer ya con el lock,
// para conciliar contra la cantidad confirmada y no contra una lectura previa.
func loadOwnedTransaction(
	ctx context.Context,
	itemRepo repository.StockItemRepository,
	txRepo repository.StockTransactionRepository,
	ownerID, txID string,
) (*entity.StockItem, *entity.StockTransaction, error) {
	tx, err := txRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, nil, err
	}
	if tx == nil {
		return nil, nil, domain.ErrNotFound
	}
	if tx.OwnerID != ownerID {
		return nil, nil, domain.ErrUnauthorized
	}
	item, err := itemRepo.GetForUpdate(ctx, tx.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkOwner(item, ownerID); err != nil {
		return nil, nil, err
	}
	locked, err := txRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, nil, err
	}
	// Otra tx pudo eliminarla mientras esperábamos el lock.
	if locked == nil || locked.ItemID != item.ID {
		return nil, nil, domain.ErrNotFound
	}
	return item, locked, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
