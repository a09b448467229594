package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
)

// TransactionHandler historial de stock: consulta, registro, edición y eliminación de transacciones.
type TransactionHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(ledger *inventory.LedgerUseCase) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// List godoc
// @Summary      Historial de transacciones
// @Description  Con product_id devuelve el libro completo de ese artículo; sin él, el historial paginado del usuario.
// @Tags         stock-history
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del artículo"
// @Param        limit       query  int     false  "máximo 100"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/stock-history [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	if itemID := c.Query("product_id"); itemID != "" {
		out, err := h.ledger.ListByItem(c.UserContext(), userID, itemID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	out, err := h.ledger.ListHistory(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Record godoc
// @Summary      Registrar transacción (IN u OUT)
// @Tags         stock-history
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "product_id, type, quantity, person_name, notes"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.StockErrorResponse
// @Router       /api/stock-history [post]
func (h *TransactionHandler) Record(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.Record(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener transacción
// @Tags         stock-history
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Router       /api/stock-history/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	out, err := h.ledger.GetTransaction(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Edit godoc
// @Summary      Editar transacción
// @Description  Cambia cantidad, persona o notas. El tipo es inmutable; el stock se recalcula.
// @Tags         stock-history
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la transacción"
// @Param        body  body  dto.EditTransactionRequest  true  "quantity, person_name, notes"
// @Success      200   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.StockErrorResponse
// @Router       /api/stock-history/{id} [put]
func (h *TransactionHandler) Edit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	var in dto.EditTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.EditTransaction(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar transacción
// @Tags         stock-history
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.MovementResponse
// @Failure      409  {object}  dto.StockErrorResponse
// @Router       /api/stock-history/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	out, err := h.ledger.DeleteTransaction(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
