package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// DefaultUnit unidad de medida cuando no se indica.
const DefaultUnit = "pcs"

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía movimientos.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	txRunner   stock.TxRunner
	audit      AuditRecorder
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository, txRunner stock.TxRunner, audit AuditRecorder) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories, txRunner: txRunner, audit: audit, now: time.Now}
}

// Create crea un producto. SKU único por organización y la categoría debe pertenecer a la organización.
func (uc *ProductUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	sku := strings.TrimSpace(in.SKU)
	if name == "" || sku == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CurrentStock < 0 || in.MinimumStock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.ProductStatusActive
	}
	if !entity.ValidProductStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	existing, err := uc.repo.GetBySKU(ctx, actor.OrganizationID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un producto con el SKU %s", domain.ErrDuplicate, sku)
	}
	category, err := uc.categories.GetByID(ctx, actor.OrganizationID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría no encontrada", domain.ErrNotFound)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = DefaultUnit
	}

	now := uc.now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		OrganizationID: actor.OrganizationID,
		CategoryID:     category.ID,
		Name:           name,
		SKU:            sku,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		CostPrice:      in.CostPrice,
		SellingPrice:   in.SellingPrice,
		CurrentStock:   in.CurrentStock,
		MinimumStock:   in.MinimumStock,
		Unit:           unit,
		Status:         status,
		ExpirationDate: in.ExpirationDate,
		CreatedAt:      now,
		UpdatedAt:      now,
		CategoryName:   category.Name,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.audit.RecordBestEffort(ctx, auditEntry(actor, entity.AuditActionCreate, "Product", product.ID,
		fmt.Sprintf("Product %q (SKU: %s) created", product.Name, product.SKU)))
	out := dto.ProductFromEntity(product)
	return &out, nil
}

// GetByID obtiene un producto de la organización.
func (uc *ProductUseCase) GetByID(ctx context.Context, organizationID, id string) (*dto.ProductResponse, error) {
	p, err := uc.find(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(p)
	return &out, nil
}

// List lista productos con búsqueda, filtros y paginación (más recientes primero).
func (uc *ProductUseCase) List(ctx context.Context, organizationID string, q dto.ProductListQuery) (*dto.PagedResponse[dto.ProductResponse], error) {
	q.Normalize(dto.DefaultLimit)
	filter := ProductFilterFrom(organizationID, q, uc.now())
	filter.Limit = q.Limit
	filter.Offset = q.Offset()
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.PagedResponse[dto.ProductResponse]{
		Data: dto.ProductsFromEntities(list),
		Meta: dto.NewPageMeta(total, q.PageRequest),
	}, nil
}

// Update actualiza campos del producto (nunca currentStock). Registra STATUS_CHANGE si cambia
// el estado y UPDATE con la lista de cambios.
func (uc *ProductUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.find(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	old := *p
	var changes []string

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if name != p.Name {
			changes = append(changes, fmt.Sprintf("Name: %q → %q", p.Name, name))
		}
		p.Name = name
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, domain.ErrInvalidInput
		}
		if sku != p.SKU {
			dup, err := uc.repo.GetBySKU(ctx, actor.OrganizationID, sku)
			if err != nil {
				return nil, err
			}
			if dup != nil {
				return nil, fmt.Errorf("%w: ya existe un producto con el SKU %s", domain.ErrDuplicate, sku)
			}
			changes = append(changes, fmt.Sprintf("SKU: %q → %q", p.SKU, sku))
			p.SKU = sku
		}
	}
	if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
		category, err := uc.categories.GetByID(ctx, actor.OrganizationID, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, fmt.Errorf("%w: categoría no encontrada", domain.ErrNotFound)
		}
		p.CategoryID, p.CategoryName = category.ID, category.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.SellingPrice = *in.SellingPrice
	}
	if in.MinimumStock != nil {
		if *in.MinimumStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		p.MinimumStock = *in.MinimumStock
	}
	if in.Unit != nil && strings.TrimSpace(*in.Unit) != "" {
		p.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Status != nil {
		if !entity.ValidProductStatus(*in.Status) {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
		}
		if *in.Status != p.Status {
			changes = append(changes, fmt.Sprintf("Status: %q → %q", p.Status, *in.Status))
		}
		p.Status = *in.Status
	}
	if in.ClearExpirationDate {
		p.ExpirationDate = nil
	} else if in.ExpirationDate != nil {
		p.ExpirationDate = in.ExpirationDate
	}
	p.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if old.Status != p.Status {
		e := auditEntry(actor, entity.AuditActionStatusChange, "Product", p.ID, fmt.Sprintf("Product %q status changed", p.Name))
		e.OldValue, e.NewValue = old.Status, p.Status
		uc.audit.RecordBestEffort(ctx, e)
	}
	if len(changes) > 0 {
		uc.audit.RecordBestEffort(ctx, auditEntry(actor, entity.AuditActionUpdate, "Product", p.ID,
			fmt.Sprintf("Product %q updated: %s", p.Name, strings.Join(changes, ", "))))
	}
	out := dto.ProductFromEntity(p)
	return &out, nil
}

// Delete elimina el producto y sus movimientos en una sola transacción.
func (uc *ProductUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	var deleted *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		p, err := productRepo.GetForUpdate(ctx, actor.OrganizationID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		if err := movRepo.DeleteByProduct(ctx, actor.OrganizationID, id); err != nil {
			return err
		}
		if err := productRepo.Delete(ctx, actor.OrganizationID, id); err != nil {
			return err
		}
		deleted = p
		return nil
	})
	if err != nil {
		return err
	}
	uc.audit.RecordBestEffort(ctx, auditEntry(actor, entity.AuditActionDelete, "Product", id,
		fmt.Sprintf("Product %q (SKU: %s) deleted", deleted.Name, deleted.SKU)))
	return nil
}

// LowStock productos activos con stock en o bajo el mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context, organizationID string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return dto.ProductsFromEntities(list), nil
}

// OutOfStock productos activos sin stock.
func (uc *ProductUseCase) OutOfStock(ctx context.Context, organizationID string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListOutOfStock(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return dto.ProductsFromEntities(list), nil
}

// ExpirationStats clasifica los productos con fecha de vencimiento en vencidos, por vencer
// (próximos 30 días) y vigentes.
func (uc *ProductUseCase) ExpirationStats(ctx context.Context, organizationID string) (*dto.ExpirationStatsResponse, error) {
	list, err := uc.repo.ListWithExpiration(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	today := startOfDay(uc.now())
	soon := today.Add(entity.ExpiringSoonWindow)
	out := &dto.ExpirationStatsResponse{
		ExpiredProducts:      []dto.ProductResponse{},
		ExpiringSoonProducts: []dto.ProductResponse{},
		ActiveProducts:       []dto.ProductResponse{},
	}
	for _, p := range list {
		if p.ExpirationDate == nil {
			continue
		}
		out.Total++
		e := *p.ExpirationDate
		switch {
		case e.Before(today):
			out.Expired++
			out.ExpiredProducts = append(out.ExpiredProducts, dto.ProductFromEntity(p))
		case !e.After(soon):
			out.ExpiringSoon++
			out.ExpiringSoonProducts = append(out.ExpiringSoonProducts, dto.ProductFromEntity(p))
		default:
			out.Active++
			out.ActiveProducts = append(out.ActiveProducts, dto.ProductFromEntity(p))
		}
	}
	return out, nil
}

func (uc *ProductUseCase) find(ctx context.Context, organizationID, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// ProductFilterFrom arma el filtro de productos (sin paginación). Los filtros de vencimiento
// son excluyentes con prioridad expired > expiringSoon > activeExpiration > hasExpirationDate.
func ProductFilterFrom(organizationID string, q dto.ProductListQuery, now time.Time) repository.ProductFilter {
	f := repository.ProductFilter{
		OrganizationID: organizationID,
		Search:         strings.TrimSpace(q.Search),
		CategoryID:     q.CategoryID,
		Status:         q.Status,
		Today:          startOfDay(now),
	}
	switch {
	case q.Expired:
		f.Expiration = repository.ExpirationExpired
	case q.ExpiringSoon:
		f.Expiration = repository.ExpirationSoon
	case q.ActiveExpiration:
		f.Expiration = repository.ExpirationActive
	case q.HasExpirationDate:
		f.Expiration = repository.ExpirationHasDate
	}
	return f
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func auditEntry(actor dto.Actor, action, entityType, entityID, description string) *entity.AuditLog {
	return &entity.AuditLog{
		OrganizationID: actor.OrganizationID,
		UserID:         actor.UserID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
		Description:    description,
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
	}
}
