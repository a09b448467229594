package dto

import "time"

// StockInRequest body para POST /api/stocks/:id/stock-in.
type StockInRequest struct {
	Quantity int64  `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// StockOutRequest body para POST /api/stocks/:id/stock-out.
type StockOutRequest struct {
	Quantity   int64  `json:"quantity"`
	PersonName string `json:"person_name"`
	Notes      string `json:"notes,omitempty"`
}

// RecordTransactionRequest body para POST /api/stock-history (type IN u OUT).
type RecordTransactionRequest struct {
	ItemID     string `json:"product_id"`
	Type       string `json:"type"`
	Quantity   int64  `json:"quantity"`
	PersonName string `json:"person_name,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// EditTransactionRequest body para PUT /api/stock-history/:id. El tipo no se puede cambiar.
type EditTransactionRequest struct {
	Quantity   int64   `json:"quantity"`
	PersonName *string `json:"person_name"`
	Notes      *string `json:"notes"`
}

// TransactionResponse salida de una transacción del libro.
type TransactionResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	Type       string    `json:"type"`
	Quantity   int64     `json:"quantity"`
	PersonName string    `json:"person_name,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MovementResponse resultado de una mutación aceptada.
// Transaction es nil cuando la operación eliminó la transacción.
type MovementResponse struct {
	ItemID        string               `json:"item_id"`
	NewStockCount int64                `json:"new_stock_count"`
	Transaction   *TransactionResponse `json:"transaction,omitempty"`
}

// TransactionListResponse lista de transacciones (paginada en el historial global).
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  *PageResponse         `json:"page,omitempty"`
}
