package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto StockMovementRepository sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento (inmutable).
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, organization_id, product_id, user_id, type, quantity, reason, created_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8)`,
		m.ID, m.OrganizationID, m.ProductID, m.UserID, string(m.Type), m.Quantity, m.Reason, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// DeleteByProduct borra los movimientos de un producto (cascada al eliminar el producto).
func (r *StockMovementRepo) DeleteByProduct(ctx context.Context, organizationID, productID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM stock_movements WHERE organization_id = $1 AND product_id = $2`,
		organizationID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete stock movements: %w", err)
	}
	return nil
}

// List historial con producto, categoría y usuario, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovementDetail, int, error) {
	w := &whereBuilder{}
	w.add("m.organization_id = ?", f.OrganizationID)
	if f.ProductID != "" {
		w.add("m.product_id::text = ?", f.ProductID)
	}
	if f.Type != "" {
		w.add("m.type = ?", string(f.Type))
	}
	if f.From != nil {
		w.add("m.created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("m.created_at <= ?", *f.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements m`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	limit, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.organization_id, m.product_id, COALESCE(m.user_id::text, ''), m.type, m.quantity,
			m.reason, m.created_at, p.name, p.sku, COALESCE(p.category_id::text, ''), COALESCE(c.name, ''),
			COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.role, '')
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN users u ON u.id = m.user_id`+w.sql()+`
		ORDER BY m.created_at DESC, m.id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovementDetail
	for rows.Next() {
		var d entity.StockMovementDetail
		var movementType string
		if err := rows.Scan(
			&d.ID, &d.OrganizationID, &d.ProductID, &d.UserID, &movementType, &d.Quantity,
			&d.Reason, &d.CreatedAt, &d.ProductName, &d.ProductSKU, &d.CategoryID, &d.CategoryName,
			&d.UserName, &d.UserEmail, &d.UserRole,
		); err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		d.Type = entity.MovementType(movementType)
		list = append(list, &d)
	}
	return list, total, rows.Err()
}
