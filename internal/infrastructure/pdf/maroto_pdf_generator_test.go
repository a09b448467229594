package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

func TestItemLedgerPDF_GeneraDocumento(t *testing.T) {
	item := &entity.StockItem{ID: "i1", Name: "Laptop", Unit: "pcs", CurrentStock: 70}
	txs := []*entity.StockTransaction{
		{ID: "t2", ItemID: "i1", Type: entity.TransactionTypeOUT, Quantity: 30, PersonName: "Sarah", CreatedAt: time.Now()},
		{ID: "t1", ItemID: "i1", Type: entity.TransactionTypeIN, Quantity: 100, CreatedAt: time.Now().Add(-time.Hour)},
	}
	data, err := NewMarotoPDFGenerator().ItemLedgerPDF(context.Background(), item, txs)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "debe ser un PDF")
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0", formatUnits(0))
	assert.Equal(t, "999", formatUnits(999))
	assert.Equal(t, "25.000", formatUnits(25000))
	assert.Equal(t, "1.000.000", formatUnits(1000000))
	assert.Equal(t, "-1.200", formatUnits(-1200))
}
