package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

type auditSpy struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (a *auditSpy) RecordBestEffort(_ context.Context, e *entity.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *auditSpy) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type categoryRepo struct {
	items map[string]*entity.Category
}

func newCategoryRepo(cats ...*entity.Category) *categoryRepo {
	r := &categoryRepo{items: map[string]*entity.Category{}}
	for _, c := range cats {
		r.items[c.ID] = c
	}
	return r
}

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.items[c.ID] = c
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, org, id string) (*entity.Category, error) {
	c, ok := r.items[id]
	if !ok || c.OrganizationID != org {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *categoryRepo) GetByName(_ context.Context, org, name string) (*entity.Category, error) {
	for _, c := range r.items {
		if c.OrganizationID == org && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.items[c.ID] = c
	return nil
}

func (r *categoryRepo) List(_ context.Context, org string) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.items {
		if c.OrganizationID == org {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *categoryRepo) Delete(_ context.Context, org, id string) error {
	delete(r.items, id)
	return nil
}

type userRepo struct {
	items map[string]*entity.User
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error { r.items[u.ID] = u; return nil }

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.items[id], nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return nil, nil
}

func (r *userRepo) GetByEmailAndOrganization(_ context.Context, email, org string) (*entity.User, error) {
	return nil, nil
}

func (r *userRepo) ListByOrganization(_ context.Context, org string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.items {
		if u.OrganizationID == org {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *userRepo) CountByRole(_ context.Context, org, role string) (int, error) {
	n := 0
	for _, u := range r.items {
		if u.OrganizationID == org && u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *userRepo) Delete(_ context.Context, org, id string) error {
	delete(r.items, id)
	return nil
}

type reportRepo struct {
	summary repository.StockSummary
	dist    []repository.CategoryStock
	value   decimal.Decimal
}

func (r reportRepo) StockSummary(context.Context, string) (repository.StockSummary, error) {
	return r.summary, nil
}

func (r reportRepo) DistributionByCategory(context.Context, string) ([]repository.CategoryStock, error) {
	return r.dist, nil
}

func (r reportRepo) InventoryValue(context.Context, string) (decimal.Decimal, error) {
	return r.value, nil
}

type orgRepo struct{ org *entity.Organization }

func (r orgRepo) Create(context.Context, *entity.Organization) error { return nil }

func (r orgRepo) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	if r.org != nil && r.org.ID == id {
		return r.org, nil
	}
	return nil, nil
}

func (r orgRepo) GetByName(context.Context, string) (*entity.Organization, error) { return nil, nil }

type pdfSpy struct {
	orgName  string
	products []*entity.Product
}

func (p *pdfSpy) LowStockReport(orgName string, products []*entity.Product, _ time.Time) ([]byte, error) {
	p.orgName, p.products = orgName, products
	return []byte("%PDF-1.4"), nil
}

type auditRepo struct {
	items []*entity.AuditLog
	last  repository.AuditFilter
}

func (r *auditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	r.items = append(r.items, l)
	return nil
}

func (r *auditRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	r.last = f
	return r.items, len(r.items), nil
}
