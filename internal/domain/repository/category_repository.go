package repository

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Category, error)
	GetByName(ctx context.Context, organizationID, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// List incluye ProductCount de cada categoría.
	List(ctx context.Context, organizationID string) ([]*entity.Category, error)
	Delete(ctx context.Context, organizationID, id string) error
}
