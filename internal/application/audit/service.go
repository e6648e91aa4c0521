package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// DefaultTimeout límite de una escritura de auditoría.
const DefaultTimeout = 5 * time.Second

// Service registra y consulta la auditoría de eventos de negocio.
type Service struct {
	repo    repository.AuditLogRepository
	timeout time.Duration
	log     *logger.Logger
	now     func() time.Time
}

// NewService construye el servicio. timeout <= 0 usa DefaultTimeout.
func NewService(repo repository.AuditLogRepository, timeout time.Duration, log *logger.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, timeout: timeout, log: log, now: time.Now}
}

// Record persiste una entrada. Se desacopla de la cancelación del request (la respuesta ya
// puede haberse enviado) y queda acotada por el timeout del servicio.
func (s *Service) Record(ctx context.Context, entry *entity.AuditLog) error {
	if entry.OrganizationID == "" || entry.UserID == "" || entry.Action == "" {
		return domain.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("audit %s %s: %w", entry.Action, entry.EntityType, err)
	}
	return nil
}

// RecordBestEffort registra la entrada y descarta el error después de loguearlo.
func (s *Service) RecordBestEffort(ctx context.Context, entry *entity.AuditLog) {
	if err := s.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).
			Str("organization_id", entry.OrganizationID).
			Str("user_id", entry.UserID).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID).
			Msg("auditoría no registrada")
	}
}

// List lista la auditoría de la organización (más reciente primero).
func (s *Service) List(ctx context.Context, organizationID string, q dto.AuditLogQuery) (*dto.PagedResponse[dto.AuditLogResponse], error) {
	q.Normalize(dto.DefaultLimit)
	list, total, err := s.repo.List(ctx, repository.AuditFilter{
		OrganizationID: organizationID,
		UserID:         q.UserID,
		Action:         q.Action,
		EntityType:     q.EntityType,
		Limit:          q.Limit,
		Offset:         q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.AuditLogResponse, 0, len(list))
	for _, l := range list {
		data = append(data, dto.AuditLogFromEntity(l))
	}
	return &dto.PagedResponse[dto.AuditLogResponse]{Data: data, Meta: dto.NewPageMeta(total, q.PageRequest)}, nil
}
