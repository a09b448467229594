// Package client es el cliente HTTP de la API de stock (resty), usado por la TUI.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
)

// Config datos de conexión con la API.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// APIError error devuelto por la API. Unwrap lo traduce al error de dominio equivalente.
type APIError struct {
	Status    int
	Code      string `json:"code"`
	Message   string `json:"message"`
	Available int64  `json:"available"`
	Requested int64  `json:"requested"`
}

func (e *APIError) Error() string {
	if e.Code == "INSUFFICIENT_STOCK" || e.Code == "NEGATIVE_STOCK" {
		return fmt.Sprintf("%s (disponible %d, solicitado %d)", e.Message, e.Available, e.Requested)
	}
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "INSUFFICIENT_STOCK":
		return domain.ErrInsufficientStock
	case "NEGATIVE_STOCK":
		return domain.ErrNegativeStockResult
	case "VALIDATION", "INVALID_BODY":
		return domain.ErrInvalidInput
	case "NOT_FOUND":
		return domain.ErrNotFound
	case "UNAUTHORIZED":
		return domain.ErrUnauthorized
	case "INVALID_CREDENTIALS":
		return domain.ErrInvalidCredentials
	case "FORBIDDEN":
		return domain.ErrForbidden
	}
	return nil
}

// Client implementación resty de la API.
type Client struct {
	http *resty.Client
}

// New construye el cliente. Token vacío permite llamar a Login antes de autenticarse.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}
	return &Client{http: rc}
}

// Login obtiene un token y lo deja configurado para las siguientes llamadas.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	out := new(dto.LoginResponse)
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, out); err != nil {
		return nil, err
	}
	c.http.SetAuthToken(out.Token)
	return out, nil
}

// ListStocks lista los artículos del usuario (primera página de 100).
func (c *Client) ListStocks(ctx context.Context) ([]dto.StockItemResponse, error) {
	out := new(dto.StockItemListResponse)
	if err := c.do(ctx, http.MethodGet, "/api/stocks?limit=100", nil, out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GetStock obtiene un artículo.
func (c *Client) GetStock(ctx context.Context, id string) (*dto.StockItemResponse, error) {
	out := new(dto.StockItemResponse)
	if err := c.do(ctx, http.MethodGet, "/api/stocks/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStock crea un artículo.
func (c *Client) CreateStock(ctx context.Context, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	out := new(dto.StockItemResponse)
	if err := c.do(ctx, http.MethodPost, "/api/stocks", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// StockIn registra una entrada.
func (c *Client) StockIn(ctx context.Context, itemID string, in dto.StockInRequest) (*dto.MovementResponse, error) {
	out := new(dto.MovementResponse)
	if err := c.do(ctx, http.MethodPost, "/api/stocks/"+itemID+"/stock-in", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// StockOut registra una salida.
func (c *Client) StockOut(ctx context.Context, itemID string, in dto.StockOutRequest) (*dto.MovementResponse, error) {
	out := new(dto.MovementResponse)
	if err := c.do(ctx, http.MethodPost, "/api/stocks/"+itemID+"/stock-out", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTransactions libro del artículo, más recientes primero.
func (c *Client) ListTransactions(ctx context.Context, itemID string) ([]dto.TransactionResponse, error) {
	out := new(dto.TransactionListResponse)
	if err := c.do(ctx, http.MethodGet, "/api/stocks/"+itemID+"/transactions", nil, out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// EditTransaction edita cantidad, persona o notas.
func (c *Client) EditTransaction(ctx context.Context, txID string, in dto.EditTransactionRequest) (*dto.MovementResponse, error) {
	out := new(dto.MovementResponse)
	if err := c.do(ctx, http.MethodPut, "/api/stock-history/"+txID, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTransaction elimina una transacción.
func (c *Client) DeleteTransaction(ctx context.Context, txID string) (*dto.MovementResponse, error) {
	out := new(dto.MovementResponse)
	if err := c.do(ctx, http.MethodDelete, "/api/stock-history/"+txID, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard resumen del inventario.
func (c *Client) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	out := new(dto.DashboardSummaryDTO)
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	apiErr := new(APIError)
	req := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}
	return nil
}

// IsStockRejection indica si err es un rechazo por stock (insuficiente o negativo).
func IsStockRejection(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrNegativeStockResult)
}
