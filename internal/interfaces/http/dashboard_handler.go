package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
)

// DashboardHandler maneja el resumen del inventario.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los KPIs del inventario del usuario.
// GET /api/dashboard
//
// Respuesta: DashboardSummaryDTO (total_items, total_units, low_stock_count,
// low_stock_items, recent_transactions[5], unidades del mes).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return missingUser(c)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
