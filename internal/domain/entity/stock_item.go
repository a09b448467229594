package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem representa un artículo del inventario de un usuario.
// CurrentStock se recalcula solo a partir de sus transacciones (IN suma, OUT resta).
type StockItem struct {
	ID           string
	OwnerID      string
	Name         string
	Unit         string // unidades, resmas, cajas...
	CurrentStock int64
	Price        *decimal.Decimal // opcional
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
