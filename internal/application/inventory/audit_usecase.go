package inventory

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/ledger"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// AuditUseCase verifica que el stock guardado coincida con la suma del libro.
// Solo informa diferencias; nunca corrige datos.
type AuditUseCase struct {
	itemRepo repository.StockItemRepository
	txRepo   repository.StockTransactionRepository
	metrics  MetricsRecorder
}

// NewAuditUseCase construye el caso de uso. metrics puede ser nil.
func NewAuditUseCase(itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository, metrics MetricsRecorder) *AuditUseCase {
	return &AuditUseCase{itemRepo: itemRepo, txRepo: txRepo, metrics: metricsOrNop(metrics)}
}

// AuditItem concilia un artículo del usuario.
func (uc *AuditUseCase) AuditItem(ctx context.Context, ownerID, itemID string) (*dto.AuditReportResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(item, ownerID); err != nil {
		return nil, err
	}
	return uc.audit(ctx, item)
}

// AuditAll concilia todos los artículos y devuelve solo los inconsistentes.
func (uc *AuditUseCase) AuditAll(ctx context.Context) ([]dto.AuditReportResponse, error) {
	items, err := uc.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var drifted []dto.AuditReportResponse
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report, err := uc.audit(ctx, item)
		if err != nil {
			return nil, err
		}
		if !report.Consistent {
			drifted = append(drifted, *report)
		}
	}
	uc.metrics.DriftDetected(len(drifted))
	return drifted, nil
}

func (uc *AuditUseCase) audit(ctx context.Context, item *entity.StockItem) (*dto.AuditReportResponse, error) {
	txs, err := uc.txRepo.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	d := ledger.Audit(item, txs)
	return &dto.AuditReportResponse{
		ItemID:       d.ItemID,
		ItemName:     item.Name,
		StoredStock:  d.StoredStock,
		LedgerStock:  d.LedgerStock,
		Difference:   d.Difference,
		Transactions: d.Transactions,
		Consistent:   d.Consistent(),
	}, nil
}
