package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// MovementFilter criterios del historial de movimientos. Limit 0 = sin límite.
type MovementFilter struct {
	OrganizationID string
	ProductID      string
	Type           entity.MovementType
	From           *time.Time // inclusive
	To             *time.Time // inclusive
	Limit          int
	Offset         int
}

// StockMovementRepository define el puerto de persistencia para StockMovement.
// Los movimientos son inmutables: solo se borran en cascada con su producto.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	DeleteByProduct(ctx context.Context, organizationID, productID string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovementDetail, int, error)
}
