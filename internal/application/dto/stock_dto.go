package dto

import (
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// StockMovementRequest body para POST /api/stock/move.
// Quantity: magnitud distinta de cero para IN/OUT (el signo se normaliza); stock objetivo para ADJUSTMENT.
type StockMovementRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity"`
	Type      string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Reason    string `json:"reason" validate:"required,min=1,max=500"`
}

// StockHistoryQuery filtros de GET /api/stock/history. Fechas YYYY-MM-DD (días completos).
type StockHistoryQuery struct {
	PageRequest
	ProductID string `query:"productId"`
	Type      string `query:"type" validate:"omitempty,oneof=IN OUT ADJUSTMENT"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

// StockMovementResponse movimiento creado; Quantity es el delta aplicado.
type StockMovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	OrganizationID string    `json:"organizationId"`
	UserID         string    `json:"userId"`
	Type           string    `json:"type"`
	Quantity       int64     `json:"quantity"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MovementProductRef producto embebido en el historial.
type MovementProductRef struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	SKU      string       `json:"sku"`
	Category *CategoryRef `json:"category,omitempty"`
}

// UserRef usuario embebido en historial y auditoría.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// StockMovementDetailResponse fila del historial.
type StockMovementDetailResponse struct {
	StockMovementResponse
	Product MovementProductRef `json:"product"`
	User    UserRef            `json:"user"`
}

// StockMovementFromEntity mapea entity.StockMovement.
func StockMovementFromEntity(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		Reason:         m.Reason,
		CreatedAt:      m.CreatedAt,
	}
}

// StockMovementDetailFromEntity mapea entity.StockMovementDetail.
func StockMovementDetailFromEntity(d *entity.StockMovementDetail) StockMovementDetailResponse {
	r := StockMovementDetailResponse{
		StockMovementResponse: StockMovementFromEntity(&d.StockMovement),
		Product:               MovementProductRef{ID: d.ProductID, Name: d.ProductName, SKU: d.ProductSKU},
		User:                  UserRef{ID: d.UserID, Name: d.UserName, Email: d.UserEmail, Role: d.UserRole},
	}
	if d.CategoryID != "" {
		r.Product.Category = &CategoryRef{ID: d.CategoryID, Name: d.CategoryName}
	}
	return r
}
