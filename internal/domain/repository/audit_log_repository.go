package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// AuditFilter criterios de consulta de auditoría. Limit 0 = sin límite.
type AuditFilter struct {
	OrganizationID string
	UserID         string
	Action         string
	EntityType     string
	From           *time.Time
	To             *time.Time
	Limit          int
	Offset         int
}

// AuditLogRepository define el puerto de persistencia para AuditLog.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]*entity.AuditLog, int, error)
}
