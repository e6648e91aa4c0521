package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// CategoryUseCase casos de uso de categorías (nombre único por organización).
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	audit    AuditRecorder
	now      func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, products repository.ProductRepository, audit AuditRecorder) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, products: products, audit: audit, now: time.Now}
}

// Create crea una categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ensureUniqueName(ctx, actor.OrganizationID, name, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Category{
		ID:             uuid.New().String(),
		OrganizationID: actor.OrganizationID,
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.audit.RecordBestEffort(ctx, auditEntry(actor, entity.AuditActionCreate, "Category", c.ID,
		fmt.Sprintf("Category %q created", c.Name)))
	out := dto.CategoryFromEntity(c)
	return &out, nil
}

// GetByID obtiene una categoría de la organización.
func (uc *CategoryUseCase) GetByID(ctx context.Context, organizationID, id string) (*dto.CategoryResponse, error) {
	c, err := uc.find(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	out := dto.CategoryFromEntity(c)
	return &out, nil
}

// List lista las categorías con su conteo de productos.
func (uc *CategoryUseCase) List(ctx context.Context, organizationID string) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryFromEntity(c))
	}
	return out, nil
}

// Update actualiza nombre y/o descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.find(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	oldName := c.Name
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if !strings.EqualFold(name, c.Name) {
			if err := uc.ensureUniqueName(ctx, actor.OrganizationID, name, c.ID); err != nil {
				return nil, err
			}
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Category %q updated", c.Name)
	if oldName != c.Name {
		desc = fmt.Sprintf("Category renamed: %q → %q", oldName, c.Name)
	}
	uc.audit.RecordBestEffort(ctx, auditEntry(actor, entity.AuditActionUpdate, "Category", c.ID, desc))
	out := dto.CategoryFromEntity(c)
	return &out, nil
}

// Delete elimina la categoría si no tiene productos asociados.
func (uc *CategoryUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	c, err := uc.find(ctx, actor.OrganizationID, id)
	if err != nil {
		return err
	}
	n, err := uc.products.CountByCategory(ctx, actor.OrganizationID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: la categoría tiene %d productos asociados", domain.ErrConflict, n)
	}
	if err := uc.repo.Delete(ctx, actor.OrganizationID, id); err != nil {
		return err
	}
	uc.audit.RecordBestEffort(ctx, auditEntry(actor, entity.AuditActionDelete, "Category", id,
		fmt.Sprintf("Category %q deleted", c.Name)))
	return nil
}

func (uc *CategoryUseCase) find(ctx context.Context, organizationID, id string) (*entity.Category, error) {
	c, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func (uc *CategoryUseCase) ensureUniqueName(ctx context.Context, organizationID, name, exceptID string) error {
	existing, err := uc.repo.GetByName(ctx, organizationID, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, name)
	}
	return nil
}
