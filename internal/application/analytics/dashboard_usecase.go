// Package analytics contiene los casos de uso de lectura para el dashboard del inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

const (
	// DefaultLowStockThreshold un artículo está en stock bajo si current_stock < umbral.
	DefaultLowStockThreshold int64 = 20
	dashboardRecent                = 5 // transacciones en el widget del dashboard
)

// DashboardUseCase genera el resumen del inventario del usuario.
//
// Fuente de datos: repositorios de artículos y transacciones (solo lectura).
type DashboardUseCase struct {
	itemRepo  repository.StockItemRepository
	txRepo    repository.StockTransactionRepository
	threshold int64
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso. threshold <= 0 usa DefaultLowStockThreshold.
func NewDashboardUseCase(itemRepo repository.StockItemRepository, txRepo repository.StockTransactionRepository, threshold int64) *DashboardUseCase {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &DashboardUseCase{itemRepo: itemRepo, txRepo: txRepo, threshold: threshold, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO para el usuario indicado.
//
// Dos lecturas en paralelo:
//  1. artículos del usuario → totales y stock bajo
//  2. libro del usuario     → últimas transacciones y unidades del mes
func (uc *DashboardUseCase) GetSummary(ctx context.Context, ownerID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type itemsResult struct {
		items []*entity.StockItem
		err   error
	}
	type txsResult struct {
		txs []*entity.StockTransaction
		err error
	}

	itemsCh := make(chan itemsResult, 1)
	txsCh := make(chan txsResult, 1)

	go func() {
		items, err := uc.itemRepo.ListByOwner(ctx, ownerID, 0, 0)
		itemsCh <- itemsResult{items, err}
	}()
	go func() {
		txs, err := uc.txRepo.ListByOwner(ctx, ownerID, 0, 0)
		txsCh <- txsResult{txs, err}
	}()

	items := <-itemsCh
	txs := <-txsCh

	if items.err != nil {
		return nil, fmt.Errorf("dashboard: artículos: %w", items.err)
	}
	if txs.err != nil {
		return nil, fmt.Errorf("dashboard: transacciones: %w", txs.err)
	}

	out := &dto.DashboardSummaryDTO{
		TotalItems:         len(items.items),
		LowStockThreshold:  uc.threshold,
		DateLabel:          monthLabel(now),
		LowStockItems:      []dto.StockItemResponse{},
		RecentTransactions: []dto.TransactionResponse{},
	}
	for _, it := range items.items {
		out.TotalUnits += it.CurrentStock
		if it.CurrentStock < uc.threshold {
			out.LowStockCount++
			out.LowStockItems = append(out.LowStockItems, *inventory.ToStockItemResponse(it))
		}
	}
	// ListByOwner ya viene ordenado por fecha descendente.
	for _, t := range txs.txs {
		if len(out.RecentTransactions) < dashboardRecent {
			out.RecentTransactions = append(out.RecentTransactions, *inventory.ToTransactionResponse(t))
		}
		if t.CreatedAt.Before(monthStart) {
			continue
		}
		if t.IsOut() {
			out.MonthUnitsOut += t.Quantity
		} else {
			out.MonthUnitsIn += t.Quantity
		}
	}
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
