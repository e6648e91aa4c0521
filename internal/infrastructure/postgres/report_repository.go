package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de inventario sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockSummary totales de productos y unidades de la organización.
func (r *ReportRepo) StockSummary(ctx context.Context, organizationID string) (repository.StockSummary, error) {
	var s repository.StockSummary
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'ACTIVE'),
			COALESCE(SUM(current_stock), 0)::bigint,
			COUNT(*) FILTER (WHERE status = 'ACTIVE' AND current_stock <= minimum_stock),
			COUNT(*) FILTER (WHERE status = 'ACTIVE' AND current_stock = 0)
		FROM products WHERE organization_id = $1`, organizationID,
	).Scan(&s.TotalProducts, &s.ActiveProducts, &s.TotalStockItems, &s.LowStockCount, &s.OutOfStockCount)
	if err != nil {
		return s, fmt.Errorf("stock summary: %w", err)
	}
	return s, nil
}

// DistributionByCategory unidades en stock por categoría (nombre vacío = sin categoría).
func (r *ReportRepo) DistributionByCategory(ctx context.Context, organizationID string) ([]repository.CategoryStock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(c.name, ''), COALESCE(SUM(p.current_stock), 0)::bigint
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.organization_id = $1
		GROUP BY c.name
		ORDER BY 2 DESC, 1`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("distribution by category: %w", err)
	}
	defer rows.Close()
	var out []repository.CategoryStock
	for rows.Next() {
		var cs repository.CategoryStock
		if err := rows.Scan(&cs.Name, &cs.Value); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// InventoryValue Σ cost_price × current_stock.
func (r *ReportRepo) InventoryValue(ctx context.Context, organizationID string) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(cost_price * current_stock), 0) FROM products WHERE organization_id = $1`,
		organizationID,
	).Scan(&v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("inventory value: %w", err)
	}
	return v, nil
}
