package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación del puerto OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create persiste una organización. Nombre repetido (sin distinguir mayúsculas) → ErrOrganizationExists.
func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO organizations (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		org.ID, org.Name, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrganizationExists
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	return r.get(ctx, `SELECT id, name, created_at, updated_at FROM organizations WHERE id = $1`, id)
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *OrganizationRepo) GetByName(ctx context.Context, name string) (*entity.Organization, error) {
	return r.get(ctx, `SELECT id, name, created_at, updated_at FROM organizations WHERE lower(name) = lower($1)`, name)
}

func (r *OrganizationRepo) get(ctx context.Context, query string, arg any) (*entity.Organization, error) {
	var o entity.Organization
	err := r.q.QueryRow(ctx, query, arg).Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}
