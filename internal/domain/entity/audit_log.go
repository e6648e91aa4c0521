package entity

import "time"

// Acciones registradas en la auditoría.
const (
	AuditActionCreate        = "CREATE"
	AuditActionUpdate        = "UPDATE"
	AuditActionDelete        = "DELETE"
	AuditActionLogin         = "LOGIN"
	AuditActionLogout        = "LOGOUT"
	AuditActionStockMovement = "STOCK_MOVEMENT"
	AuditActionStatusChange  = "STATUS_CHANGE"
)

// AuditLog entrada de auditoría de un evento de negocio.
type AuditLog struct {
	ID             string
	OrganizationID string
	UserID         string
	Action         string
	EntityType     string
	EntityID       string
	Description    string
	OldValue       string
	NewValue       string
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time

	UserName  string // solo lectura (JOIN)
	UserEmail string
	UserRole  string
}
