package entity

import "time"

// Tipos de transacción del libro de stock.
const (
	TransactionTypeIN  = "IN"  // entrada
	TransactionTypeOUT = "OUT" // salida
)

// StockTransaction representa una entrada o salida registrada sobre un StockItem.
type StockTransaction struct {
	ID         string
	ItemID     string
	OwnerID    string
	Type       string // IN, OUT (inmutable)
	Quantity   int64  // siempre positivo; el signo lo da Type
	PersonName string // a quién se entregó (solo OUT)
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOut indica si la transacción es una salida.
func (t *StockTransaction) IsOut() bool { return t.Type == TransactionTypeOUT }
