package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.organization_id, COALESCE(p.category_id::text, ''), p.name, p.sku,
	p.description, p.image_url, p.cost_price, p.selling_price, p.current_stock, p.minimum_stock,
	p.unit, p.status, p.expiration_date, p.created_at, p.updated_at, COALESCE(c.name, '')`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. SKU repetido en la organización → ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, organization_id, category_id, name, sku, description, image_url,
			cost_price, selling_price, current_stock, minimum_stock, unit, status, expiration_date,
			created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.CategoryID, p.Name, p.SKU, p.Description, p.ImageURL,
		p.CostPrice, p.SellingPrice, p.CurrentStock, p.MinimumStock, p.Unit, p.Status, p.ExpirationDate,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la organización.
func (r *ProductRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+productFrom+` WHERE p.organization_id = $1 AND p.id = $2`, organizationID, id)
}

// GetForUpdate obtiene el producto con SELECT ... FOR UPDATE. Debe usarse dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+productFrom+` WHERE p.organization_id = $1 AND p.id = $2 FOR UPDATE OF p`, organizationID, id)
}

// GetBySKU obtiene un producto por SKU dentro de la organización.
func (r *ProductRepo) GetBySKU(ctx context.Context, organizationID, sku string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+productFrom+` WHERE p.organization_id = $1 AND p.sku = $2`, organizationID, sku)
}

// Update actualiza un producto existente. current_stock no se toca (solo vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET category_id = NULLIF($3, '')::uuid, name = $4, sku = $5, description = $6,
			image_url = $7, cost_price = $8, selling_price = $9, minimum_stock = $10, unit = $11,
			status = $12, expiration_date = $13, updated_at = $14
		WHERE organization_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.OrganizationID, p.ID, p.CategoryID, p.Name, p.SKU, p.Description,
		p.ImageURL, p.CostPrice, p.SellingPrice, p.MinimumStock, p.Unit,
		p.Status, p.ExpirationDate, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementStock suma delta a current_stock. El CHECK de la tabla impide un resultado negativo.
func (r *ProductRepo) IncrementStock(ctx context.Context, organizationID, id string, delta int64) (int64, error) {
	var stock int64
	err := r.q.QueryRow(ctx, `
		UPDATE products SET current_stock = current_stock + $3, updated_at = now()
		WHERE organization_id = $1 AND id = $2
		RETURNING current_stock`, organizationID, id, delta,
	).Scan(&stock)
	if err != nil {
		if isNoRows(err) {
			return 0, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return stock, nil
}

// List productos de la organización con filtros, más recientes primero. Devuelve también el total.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	w := &whereBuilder{}
	w.add("p.organization_id = ?", f.OrganizationID)
	if f.Search != "" {
		w.add(`(p.name ILIKE ? OR p.sku ILIKE ? OR p.description ILIKE ?)`, likePattern(f.Search))
	}
	if f.CategoryID != "" {
		w.add("p.category_id::text = ?", f.CategoryID)
	}
	if f.Status != "" {
		w.add("p.status = ?", f.Status)
	}
	soon := f.Today.Add(entity.ExpiringSoonWindow)
	switch f.Expiration {
	case repository.ExpirationExpired:
		w.add("p.expiration_date < ?", f.Today)
	case repository.ExpirationSoon:
		w.add("p.expiration_date >= ?", f.Today)
		w.add("p.expiration_date <= ?", soon)
	case repository.ExpirationActive:
		w.add("p.expiration_date > ?", soon)
	case repository.ExpirationHasDate:
		w.addRaw("p.expiration_date IS NOT NULL")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	limit, args := w.page(f.Limit, f.Offset)
	list, err := r.query(ctx, `SELECT `+productColumns+productFrom+w.sql()+` ORDER BY p.updated_at DESC, p.id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock productos activos con current_stock <= minimum_stock, menor stock primero.
func (r *ProductRepo) ListLowStock(ctx context.Context, organizationID string) ([]*entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+productFrom+`
		WHERE p.organization_id = $1 AND p.status = 'ACTIVE' AND p.current_stock <= p.minimum_stock
		ORDER BY p.current_stock, p.name`, organizationID)
}

// ListOutOfStock productos activos sin stock.
func (r *ProductRepo) ListOutOfStock(ctx context.Context, organizationID string) ([]*entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+productFrom+`
		WHERE p.organization_id = $1 AND p.status = 'ACTIVE' AND p.current_stock = 0
		ORDER BY p.name`, organizationID)
}

// ListWithExpiration productos con fecha de vencimiento, los más próximos primero.
func (r *ProductRepo) ListWithExpiration(ctx context.Context, organizationID string) ([]*entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+productFrom+`
		WHERE p.organization_id = $1 AND p.expiration_date IS NOT NULL
		ORDER BY p.expiration_date`, organizationID)
}

// CountByCategory cuenta los productos de una categoría.
func (r *ProductRepo) CountByCategory(ctx context.Context, organizationID, categoryID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE organization_id = $1 AND category_id::text = $2`,
		organizationID, categoryID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

// Delete elimina un producto de la organización.
func (r *ProductRepo) Delete(ctx context.Context, organizationID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.CategoryID, &p.Name, &p.SKU,
		&p.Description, &p.ImageURL, &p.CostPrice, &p.SellingPrice, &p.CurrentStock, &p.MinimumStock,
		&p.Unit, &p.Status, &p.ExpirationDate, &p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
