package dto

import "github.com/shopspring/decimal"

// LowStockReportResponse productos en o bajo el mínimo, ordenados por stock ascendente.
type LowStockReportResponse struct {
	Count    int               `json:"count"`
	Products []ProductResponse `json:"products"`
}

// StockSummaryResponse totales del inventario.
type StockSummaryResponse struct {
	TotalProducts   int64 `json:"totalProducts"`
	ActiveProducts  int64 `json:"activeProducts"`
	TotalStockItems int64 `json:"totalStockItems"`
	LowStockCount   int64 `json:"lowStockCount"`
	OutOfStockCount int64 `json:"outOfStockCount"`
}

// DistributionItem unidades por categoría (formato de gráfico).
type DistributionItem struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// InventoryValueResponse valor del inventario a costo.
type InventoryValueResponse struct {
	Value decimal.Decimal `json:"value"`
}
