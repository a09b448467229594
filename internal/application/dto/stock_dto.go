package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockItemRequest body para POST /api/stocks.
// InitialStock > 0 genera una transacción IN "Stock inicial".
type CreateStockItemRequest struct {
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	InitialStock int64            `json:"initial_stock"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// UpdateStockItemRequest body para PUT /api/stocks/:id (sin stock: se maneja vía transacciones).
type UpdateStockItemRequest struct {
	Name  *string          `json:"name"`
	Unit  *string          `json:"unit"`
	Price *decimal.Decimal `json:"price"`
}

// StockItemResponse salida de un artículo.
type StockItemResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	CurrentStock int64            `json:"current_stock"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// StockItemListResponse lista paginada de artículos.
type StockItemListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// AuditReportResponse resultado de conciliar el stock con su libro.
type AuditReportResponse struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name,omitempty"`
	StoredStock  int64  `json:"stored_stock"`
	LedgerStock  int64  `json:"ledger_stock"`
	Difference   int64  `json:"difference"`
	Transactions int    `json:"transactions"`
	Consistent   bool   `json:"consistent"`
}
