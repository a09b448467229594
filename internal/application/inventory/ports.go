package inventory

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del store, pasando repositorios atados a esa tx.
// Garantiza que leer stock → conciliar → persistir se aplique completo o no se aplique.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		txRepo repository.StockTransactionRepository,
	) error) error
}

// Operaciones reportadas a MetricsRecorder.
const (
	OpCreate   = "create"
	OpStockIn  = "stock_in"
	OpStockOut = "stock_out"
	OpEdit     = "edit"
	OpDelete   = "delete"
	OpRecord   = "record"
)

// MetricsRecorder recibe el resultado de cada mutación del libro (Prometheus en producción).
type MetricsRecorder interface {
	MovementAccepted(op, txType string)
	MovementRejected(op, reason string)
	DriftDetected(items int)
}

type nopMetrics struct{}

func (nopMetrics) MovementAccepted(string, string) {}
func (nopMetrics) MovementRejected(string, string) {}
func (nopMetrics) DriftDetected(int)               {}

func metricsOrNop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
