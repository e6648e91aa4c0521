// Package stocktest provee un almacén en memoria que implementa los puertos de productos y
// movimientos junto con un TxRunner serializado, para tests de casos de uso y handlers.
package stocktest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// Store almacén en memoria. Run serializa las transacciones y restaura el estado previo si fn falla.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products  map[string]entity.Product
	movements []entity.StockMovement

	// Errores inyectados para simular fallos de persistencia dentro de la transacción.
	FailCreateMovement error
	FailIncrement      error
}

var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{products: map[string]entity.Product{}}
}

// AddProduct inserta (o reemplaza) un producto sin pasar por el repositorio.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Status == "" {
		p.Status = entity.ProductStatusActive
	}
	s.products[p.ID] = p
}

// Product devuelve una copia del producto y si existe.
func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// Movements devuelve una copia de los movimientos de un producto en orden de inserción.
func (s *Store) Movements(productID string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// MovementsRepo repositorio de movimientos fuera de transacción.
func (s *Store) MovementsRepo() *MovementRepo { return &MovementRepo{s: s} }

// Run ejecuta fn con repos del almacén; si fn falla, se descartan sus cambios.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	snapProducts := make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		snapProducts[k] = v
	}
	snapMovements := append([]entity.StockMovement(nil), s.movements...)
	s.mu.Unlock()

	if err := fn(&ProductRepo{s: s}, &MovementRepo{s: s}); err != nil {
		s.mu.Lock()
		s.products = snapProducts
		s.movements = snapMovements
		s.mu.Unlock()
		return err
	}
	return nil
}

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.products {
		if e.OrganizationID == p.OrganizationID && strings.EqualFold(e.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) get(org, id string) *entity.Product {
	p, ok := r.s.products[id]
	if !ok || p.OrganizationID != org {
		return nil
	}
	return &p
}

func (r *ProductRepo) GetByID(_ context.Context, org, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(org, id), nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, org, id string) (*entity.Product, error) {
	return r.GetByID(ctx, org, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, org, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.OrganizationID == org && p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur := r.get(p.OrganizationID, p.ID)
	if cur == nil {
		return domain.ErrNotFound
	}
	upd := *p
	upd.CurrentStock = cur.CurrentStock
	r.s.products[p.ID] = upd
	return nil
}

func (r *ProductRepo) IncrementStock(_ context.Context, org, id string, delta int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailIncrement != nil {
		return 0, r.s.FailIncrement
	}
	p := r.get(org, id)
	if p == nil {
		return 0, domain.ErrNotFound
	}
	if p.CurrentStock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.CurrentStock += delta
	p.UpdatedAt = time.Now()
	r.s.products[id] = *p
	return p.CurrentStock, nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	soon := f.Today.Add(entity.ExpiringSoonWindow)
	var all []*entity.Product
	for _, p := range r.s.products {
		if p.OrganizationID != f.OrganizationID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(p.Name), q) &&
				!strings.Contains(strings.ToLower(p.SKU), q) &&
				!strings.Contains(strings.ToLower(p.Description), q) {
				continue
			}
		}
		if f.Expiration != "" {
			e := p.ExpirationDate
			if e == nil {
				continue
			}
			switch f.Expiration {
			case repository.ExpirationExpired:
				if !e.Before(f.Today) {
					continue
				}
			case repository.ExpirationSoon:
				if e.Before(f.Today) || e.After(soon) {
					continue
				}
			case repository.ExpirationActive:
				if !e.After(soon) {
					continue
				}
			}
		}
		cp := p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UpdatedAt.Equal(all[j].UpdatedAt) {
			return all[i].UpdatedAt.After(all[j].UpdatedAt)
		}
		return all[i].ID < all[j].ID
	})
	total := len(all)
	if f.Offset > 0 {
		if f.Offset >= len(all) {
			all = nil
		} else {
			all = all[f.Offset:]
		}
	}
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *ProductRepo) filterActive(org string, keep func(p entity.Product) bool) []*entity.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.OrganizationID == org && p.Status == entity.ProductStatusActive && keep(p) {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CurrentStock != out[j].CurrentStock {
			return out[i].CurrentStock < out[j].CurrentStock
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *ProductRepo) ListLowStock(_ context.Context, org string) ([]*entity.Product, error) {
	return r.filterActive(org, func(p entity.Product) bool { return p.CurrentStock <= p.MinimumStock }), nil
}

func (r *ProductRepo) ListOutOfStock(_ context.Context, org string) ([]*entity.Product, error) {
	return r.filterActive(org, func(p entity.Product) bool { return p.CurrentStock == 0 }), nil
}

func (r *ProductRepo) ListWithExpiration(_ context.Context, org string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.OrganizationID == org && p.ExpirationDate != nil {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpirationDate.Before(*out[j].ExpirationDate) })
	return out, nil
}

func (r *ProductRepo) CountByCategory(_ context.Context, org, categoryID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.OrganizationID == org && p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *ProductRepo) Delete(_ context.Context, org, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.get(org, id) == nil {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// MovementRepo implementación en memoria de repository.StockMovementRepository.
type MovementRepo struct {
	s *Store
}

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCreateMovement != nil {
		return r.s.FailCreateMovement
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *MovementRepo) DeleteByProduct(_ context.Context, org, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.movements[:0]
	for _, m := range r.s.movements {
		if m.OrganizationID == org && m.ProductID == productID {
			continue
		}
		kept = append(kept, m)
	}
	r.s.movements = kept
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovementDetail, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.StockMovementDetail
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.OrganizationID != f.OrganizationID {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		d := &entity.StockMovementDetail{StockMovement: m}
		if p, ok := r.s.products[m.ProductID]; ok {
			d.ProductName, d.ProductSKU = p.Name, p.SKU
			d.CategoryID, d.CategoryName = p.CategoryID, p.CategoryName
		}
		all = append(all, d)
	}
	total := len(all)
	if f.Offset > 0 {
		if f.Offset >= len(all) {
			all = nil
		} else {
			all = all[f.Offset:]
		}
	}
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}
