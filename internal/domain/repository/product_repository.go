package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Filtros de vencimiento para listados de productos.
const (
	ExpirationExpired = "expired"           // vencidos (antes de hoy)
	ExpirationSoon    = "expiringSoon"      // vencen entre hoy y hoy+30d
	ExpirationActive  = "activeExpiration"  // vencen después de hoy+30d
	ExpirationHasDate = "hasExpirationDate" // con fecha de vencimiento
)

// ProductFilter criterios de búsqueda. Limit 0 = sin límite (exportaciones).
type ProductFilter struct {
	OrganizationID string
	Search         string // nombre, SKU o descripción (sin distinguir mayúsculas)
	CategoryID     string
	Status         string
	Expiration     string
	Today          time.Time // inicio del día usado como referencia para Expiration
	Limit          int
	Offset         int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las consultas están acotadas a la organización.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, organizationID, sku string) (*entity.Product, error)
	// Update no modifica current_stock (solo cambia vía movimientos).
	Update(ctx context.Context, product *entity.Product) error
	// IncrementStock suma delta a current_stock y devuelve el stock resultante.
	IncrementStock(ctx context.Context, organizationID, id string, delta int64) (int64, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	ListLowStock(ctx context.Context, organizationID string) ([]*entity.Product, error)
	ListOutOfStock(ctx context.Context, organizationID string) ([]*entity.Product, error)
	ListWithExpiration(ctx context.Context, organizationID string) ([]*entity.Product, error)
	CountByCategory(ctx context.Context, organizationID, categoryID string) (int, error)
	Delete(ctx context.Context, organizationID, id string) error
}
