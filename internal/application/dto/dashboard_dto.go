package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// KPIs del inventario del usuario más las últimas transacciones registradas.
type DashboardSummaryDTO struct {
	TotalItems        int   `json:"total_items"`
	TotalUnits        int64 `json:"total_units"` // suma de current_stock de todos los artículos
	LowStockCount     int   `json:"low_stock_count"`
	LowStockThreshold int64 `json:"low_stock_threshold"`

	MonthUnitsIn  int64  `json:"month_units_in"`  // unidades ingresadas en el mes en curso
	MonthUnitsOut int64  `json:"month_units_out"` // unidades entregadas en el mes en curso
	DateLabel     string `json:"date_label"`      // ej: "Febrero 2026"

	LowStockItems      []StockItemResponse   `json:"low_stock_items"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
}
