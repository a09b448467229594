package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/pkg/client"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.LoginResponse{Token: "tok-123"})
	})
	mux.HandleFunc("/api/stocks/item-1/stock-out", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
			return
		}
		var in dto.StockOutRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Quantity > 5 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(dto.StockErrorResponse{
				Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Available: 5, Requested: in.Quantity,
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.MovementResponse{ItemID: "item-1", NewStockCount: 5 - in.Quantity})
	})
	mux.HandleFunc("/api/stocks/missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginConfiguraToken(t *testing.T) {
	srv := newServer(t)
	c := client.New(client.Config{BaseURL: srv.URL})
	ctx := context.Background()

	out, err := c.Login(ctx, "ana@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", out.Token)

	mv, err := c.StockOut(ctx, "item-1", dto.StockOutRequest{Quantity: 2, PersonName: "Sarah"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mv.NewStockCount)
}

func TestRechazoPorStockSeTraduceAlErrorDeDominio(t *testing.T) {
	srv := newServer(t)
	c := client.New(client.Config{BaseURL: srv.URL, Token: "tok-123"})

	_, err := c.StockOut(context.Background(), "item-1", dto.StockOutRequest{Quantity: 9, PersonName: "Sarah"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, client.IsStockRejection(err))

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, int64(5), apiErr.Available)
	assert.Contains(t, apiErr.Error(), "disponible 5")
}

func TestNotFound(t *testing.T) {
	srv := newServer(t)
	c := client.New(client.Config{BaseURL: srv.URL, Token: "tok-123"})

	_, err := c.GetStock(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, client.IsStockRejection(err))
}
