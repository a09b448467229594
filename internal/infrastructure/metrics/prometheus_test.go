package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Contadores(t *testing.T) {
	r := NewRecorder("test")
	r.MovementAccepted("stock_out", "OUT")
	r.MovementAccepted("stock_out", "OUT")
	r.MovementRejected("stock_out", "insufficient_stock")
	r.DriftDetected(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.accepted.WithLabelValues("stock_out", "OUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejected.WithLabelValues("stock_out", "insufficient_stock")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.drift))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.audits))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder("test")
	r.MovementAccepted("create", "IN")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `test_ledger_movements_accepted_total{op="create",type="IN"} 1`)
}
