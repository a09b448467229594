package tui

import (
	"context"

	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/pkg/client"
)

// Backend lo que la TUI necesita de la API. Lo implementan client.Client y LocalBackend.
type Backend interface {
	ListStocks(ctx context.Context) ([]dto.StockItemResponse, error)
	GetStock(ctx context.Context, id string) (*dto.StockItemResponse, error)
	CreateStock(ctx context.Context, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error)
	StockIn(ctx context.Context, itemID string, in dto.StockInRequest) (*dto.MovementResponse, error)
	StockOut(ctx context.Context, itemID string, in dto.StockOutRequest) (*dto.MovementResponse, error)
	ListTransactions(ctx context.Context, itemID string) ([]dto.TransactionResponse, error)
	EditTransaction(ctx context.Context, txID string, in dto.EditTransactionRequest) (*dto.MovementResponse, error)
	DeleteTransaction(ctx context.Context, txID string) (*dto.MovementResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error)
}

var (
	_ Backend = (*client.Client)(nil)
	_ Backend = (*LocalBackend)(nil)
)

// LocalBackend llama a los casos de uso en proceso, para un único dueño (modo sin servidor).
type LocalBackend struct {
	ownerID   string
	stocks    *inventory.StockUseCase
	ledger    *inventory.LedgerUseCase
	dashboard *appanalytics.DashboardUseCase
}

// NewLocalBackend construye el backend local.
func NewLocalBackend(
	ownerID string,
	stocks *inventory.StockUseCase,
	ledger *inventory.LedgerUseCase,
	dashboard *appanalytics.DashboardUseCase,
) *LocalBackend {
	return &LocalBackend{ownerID: ownerID, stocks: stocks, ledger: ledger, dashboard: dashboard}
}

func (b *LocalBackend) ListStocks(ctx context.Context) ([]dto.StockItemResponse, error) {
	out, err := b.stocks.List(ctx, b.ownerID, 100, 0)
	if err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (b *LocalBackend) GetStock(ctx context.Context, id string) (*dto.StockItemResponse, error) {
	return b.stocks.GetByID(ctx, b.ownerID, id)
}

func (b *LocalBackend) CreateStock(ctx context.Context, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	return b.stocks.Create(ctx, b.ownerID, in)
}

func (b *LocalBackend) StockIn(ctx context.Context, itemID string, in dto.StockInRequest) (*dto.MovementResponse, error) {
	return b.ledger.StockIn(ctx, b.ownerID, itemID, in)
}

func (b *LocalBackend) StockOut(ctx context.Context, itemID string, in dto.StockOutRequest) (*dto.MovementResponse, error) {
	return b.ledger.StockOut(ctx, b.ownerID, itemID, in)
}

func (b *LocalBackend) ListTransactions(ctx context.Context, itemID string) ([]dto.TransactionResponse, error) {
	out, err := b.ledger.ListByItem(ctx, b.ownerID, itemID)
	if err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (b *LocalBackend) EditTransaction(ctx context.Context, txID string, in dto.EditTransactionRequest) (*dto.MovementResponse, error) {
	return b.ledger.EditTransaction(ctx, b.ownerID, txID, in)
}

func (b *LocalBackend) DeleteTransaction(ctx context.Context, txID string) (*dto.MovementResponse, error) {
	return b.ledger.DeleteTransaction(ctx, b.ownerID, txID)
}

func (b *LocalBackend) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	return b.dashboard.GetSummary(ctx, b.ownerID)
}
