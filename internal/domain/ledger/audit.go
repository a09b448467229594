package ledger

import "github.com/jhoicas/stock-tracker/internal/domain/entity"

// Drift diferencia entre el stock guardado y el que resulta de reproducir el libro.
type Drift struct {
	ItemID       string
	StoredStock  int64
	LedgerStock  int64
	Difference   int64 // StoredStock - LedgerStock
	Transactions int
}

// Consistent indica si el artículo cumple la invariante.
func (d Drift) Consistent() bool { return d.Difference == 0 }

// Replay suma los efectos de las transacciones (Σ IN − Σ OUT).
func Replay(txs []*entity.StockTransaction) int64 {
	var total int64
	for _, t := range txs {
		if t == nil {
			continue
		}
		total += SignedDelta(t.Type, t.Quantity)
	}
	return total
}

// Audit compara el stock del artículo con su libro. No corrige nada.
func Audit(item *entity.StockItem, txs []*entity.StockTransaction) Drift {
	ledgerStock := Replay(txs)
	return Drift{
		ItemID:       item.ID,
		StoredStock:  item.CurrentStock,
		LedgerStock:  ledgerStock,
		Difference:   item.CurrentStock - ledgerStock,
		Transactions: len(txs),
	}
}
