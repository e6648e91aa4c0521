package dto

import (
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// AuditLogQuery filtros de GET /api/audit-logs.
type AuditLogQuery struct {
	PageRequest
	UserID     string `query:"userId"`
	Action     string `query:"action" validate:"omitempty,oneof=CREATE UPDATE DELETE LOGIN LOGOUT STOCK_MOVEMENT STATUS_CHANGE"`
	EntityType string `query:"entityType"`
}

// HistoryExportQuery filtros de GET /api/exports/history.
type HistoryExportQuery struct {
	EntityType string `query:"entityType"`
	Action     string `query:"action"`
	StartDate  string `query:"startDate"`
	EndDate    string `query:"endDate"`
}

// AuditLogResponse salida de una entrada de auditoría.
type AuditLogResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId,omitempty"`
	Description string    `json:"description"`
	OldValue    string    `json:"oldValue,omitempty"`
	NewValue    string    `json:"newValue,omitempty"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
	User        UserRef   `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuditLogFromEntity mapea entity.AuditLog.
func AuditLogFromEntity(l *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:          l.ID,
		Action:      l.Action,
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Description: l.Description,
		OldValue:    l.OldValue,
		NewValue:    l.NewValue,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		User:        UserRef{ID: l.UserID, Name: l.UserName, Email: l.UserEmail, Role: l.UserRole},
		CreatedAt:   l.CreatedAt,
	}
}
