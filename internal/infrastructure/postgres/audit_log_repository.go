package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación del puerto AuditLogRepository sobre PostgreSQL.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada de auditoría.
func (r *AuditLogRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, organization_id, user_id, action, entity_type, entity_id, description,
			old_value, new_value, ip_address, user_agent, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		l.ID, l.OrganizationID, l.UserID, l.Action, l.EntityType, l.EntityID, l.Description,
		l.OldValue, l.NewValue, l.IPAddress, l.UserAgent, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List entradas de la organización con datos del usuario, más recientes primero.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	w := &whereBuilder{}
	w.add("a.organization_id = ?", f.OrganizationID)
	if f.UserID != "" {
		w.add("a.user_id::text = ?", f.UserID)
	}
	if f.Action != "" {
		w.add("a.action = ?", f.Action)
	}
	if f.EntityType != "" {
		w.add("a.entity_type = ?", f.EntityType)
	}
	if f.From != nil {
		w.add("a.created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("a.created_at <= ?", *f.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs a`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	limit, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `
		SELECT a.id, a.organization_id, COALESCE(a.user_id::text, ''), a.action, a.entity_type, a.entity_id,
			a.description, a.old_value, a.new_value, a.ip_address, a.user_agent, a.created_at,
			COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.role, '')
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.user_id`+w.sql()+`
		ORDER BY a.created_at DESC, a.id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		if err := rows.Scan(
			&l.ID, &l.OrganizationID, &l.UserID, &l.Action, &l.EntityType, &l.EntityID,
			&l.Description, &l.OldValue, &l.NewValue, &l.IPAddress, &l.UserAgent, &l.CreatedAt,
			&l.UserName, &l.UserEmail, &l.UserRole,
		); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &l)
	}
	return list, total, rows.Err()
}
