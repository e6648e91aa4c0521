package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockSummary totales de inventario de una organización.
type StockSummary struct {
	TotalProducts   int64
	ActiveProducts  int64
	TotalStockItems int64
	LowStockCount   int64
	OutOfStockCount int64
}

// CategoryStock unidades en stock agrupadas por categoría.
type CategoryStock struct {
	Name  string
	Value int64
}

// ReportRepository consultas agregadas de solo lectura para reportes.
type ReportRepository interface {
	StockSummary(ctx context.Context, organizationID string) (StockSummary, error)
	DistributionByCategory(ctx context.Context, organizationID string) ([]CategoryStock, error)
	InventoryValue(ctx context.Context, organizationID string) (decimal.Decimal, error)
}
