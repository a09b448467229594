package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/report"
)

// StockHandler maneja artículos y sus movimientos de entrada/salida (protegido).
type StockHandler struct {
	stocks *inventory.StockUseCase
	ledger *inventory.LedgerUseCase
	audit  *inventory.AuditUseCase
	report *report.ReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(
	stocks *inventory.StockUseCase,
	ledger *inventory.LedgerUseCase,
	audit *inventory.AuditUseCase,
	report *report.ReportUseCase,
) *StockHandler {
	return &StockHandler{stocks: stocks, ledger: ledger, audit: audit, report: report}
}

// List godoc
// @Summary      Listar artículos
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.StockItemListResponse
// @Router       /api/stocks [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	out, err := h.stocks.List(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear artículo
// @Description  initial_stock > 0 registra una entrada "Stock inicial".
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "name, unit, initial_stock, price"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stocks [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stocks.Create(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	out, err := h.stocks.GetByID(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar nombre, unidad o precio
// @Description  El stock no se edita aquí; solo cambia vía transacciones.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del artículo"
// @Param        body  body  dto.UpdateStockItemRequest  true  "name, unit, price"
// @Success      200   {object}  dto.StockItemResponse
// @Router       /api/stocks/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	var in dto.UpdateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stocks.Update(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar artículo y su libro
// @Tags         stocks
// @Security     Bearer
// @Param        id  path  string  true  "ID del artículo"
// @Success      204
// @Router       /api/stocks/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	if err := h.stocks.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StockIn godoc
// @Summary      Registrar entrada
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del artículo"
// @Param        body  body  dto.StockInRequest  true  "quantity, notes"
// @Success      201   {object}  dto.MovementResponse
// @Router       /api/stocks/{id}/stock-in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.StockIn(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// StockOut godoc
// @Summary      Registrar salida
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del artículo"
// @Param        body  body  dto.StockOutRequest  true  "quantity, person_name, notes"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.StockErrorResponse
// @Router       /api/stocks/{id}/stock-out [post]
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.StockOut(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transactions godoc
// @Summary      Libro del artículo (más recientes primero)
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/stocks/{id}/transactions [get]
func (h *StockHandler) Transactions(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	out, err := h.ledger.ListByItem(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Audit godoc
// @Summary      Conciliar stock contra el libro
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.AuditReportResponse
// @Router       /api/stocks/{id}/audit [get]
func (h *StockHandler) Audit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	out, err := h.audit.AuditItem(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el libro del artículo
// @Tags         stocks
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id      path   string  true   "ID del artículo"
// @Param        format  query  string  false  "xlsx (defecto) o pdf"
// @Success      200
// @Router       /api/stocks/{id}/export [get]
func (h *StockHandler) Export(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	file, err := h.report.ExportItemLedger(c.UserContext(), userID, c.Params("id"), c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file)
}

// ExportInventory godoc
// @Summary      Exportar inventario a XLSX
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/reports/inventory [get]
func (h *StockHandler) ExportInventory(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	file, err := h.report.ExportInventory(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file)
}

func sendFile(c *fiber.Ctx, file *report.File) error {
	c.Attachment(file.Name)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}
