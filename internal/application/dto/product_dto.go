package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	SKU            string          `json:"sku" validate:"required,min=1,max=100"`
	CategoryID     string          `json:"categoryId" validate:"required"`
	Description    string          `json:"description"`
	ImageURL       string          `json:"imageUrl" validate:"omitempty,max=2048"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	SellingPrice   decimal.Decimal `json:"sellingPrice"`
	CurrentStock   int64           `json:"currentStock" validate:"min=0"`
	MinimumStock   int64           `json:"minimumStock" validate:"min=0"`
	Unit           string          `json:"unit" validate:"omitempty,max=20"`
	Status         string          `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	ExpirationDate *time.Time      `json:"expirationDate"`
}

// UpdateProductRequest actualización parcial. No incluye currentStock (solo vía movimientos).
// ClearExpirationDate elimina la fecha de vencimiento.
type UpdateProductRequest struct {
	Name                *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU                 *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	CategoryID          *string          `json:"categoryId" validate:"omitempty,min=1"`
	Description         *string          `json:"description"`
	ImageURL            *string          `json:"imageUrl" validate:"omitempty,max=2048"`
	CostPrice           *decimal.Decimal `json:"costPrice"`
	SellingPrice        *decimal.Decimal `json:"sellingPrice"`
	MinimumStock        *int64           `json:"minimumStock" validate:"omitempty,min=0"`
	Unit                *string          `json:"unit" validate:"omitempty,max=20"`
	Status              *string          `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	ExpirationDate      *time.Time       `json:"expirationDate"`
	ClearExpirationDate bool             `json:"clearExpirationDate"`
}

// ProductListQuery filtros de GET /api/products y de la exportación de productos.
type ProductListQuery struct {
	PageRequest
	Search            string `query:"search"`
	CategoryID        string `query:"categoryId"`
	Status            string `query:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	Expired           bool   `query:"expired"`
	ExpiringSoon      bool   `query:"expiringSoon"`
	ActiveExpiration  bool   `query:"activeExpiration"`
	HasExpirationDate bool   `query:"hasExpirationDate"`
}

// CategoryRef referencia embebida de categoría.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	CategoryID     string          `json:"categoryId"`
	Category       *CategoryRef    `json:"category,omitempty"`
	Description    string          `json:"description"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	SellingPrice   decimal.Decimal `json:"sellingPrice"`
	CurrentStock   int64           `json:"currentStock"`
	MinimumStock   int64           `json:"minimumStock"`
	Unit           string          `json:"unit"`
	Status         string          `json:"status"`
	ExpirationDate *time.Time      `json:"expirationDate"`
	IsLowStock     bool            `json:"isLowStock"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ExpirationStatsResponse conteos y listados por estado de vencimiento.
type ExpirationStatsResponse struct {
	Total                int               `json:"total"`
	Expired              int               `json:"expired"`
	ExpiringSoon         int               `json:"expiringSoon"`
	Active               int               `json:"active"`
	ExpiredProducts      []ProductResponse `json:"expiredProducts"`
	ExpiringSoonProducts []ProductResponse `json:"expiringSoonProducts"`
	ActiveProducts       []ProductResponse `json:"activeProducts"`
}

// ProductFromEntity mapea entity.Product a ProductResponse.
func ProductFromEntity(p *entity.Product) ProductResponse {
	r := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		CategoryID:     p.CategoryID,
		Description:    p.Description,
		ImageURL:       p.ImageURL,
		CostPrice:      p.CostPrice,
		SellingPrice:   p.SellingPrice,
		CurrentStock:   p.CurrentStock,
		MinimumStock:   p.MinimumStock,
		Unit:           p.Unit,
		Status:         p.Status,
		ExpirationDate: p.ExpirationDate,
		IsLowStock:     p.IsLowStock(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.CategoryID != "" && p.CategoryName != "" {
		r.Category = &CategoryRef{ID: p.CategoryID, Name: p.CategoryName}
	}
	return r
}

// ProductsFromEntities mapea una lista; nunca devuelve nil.
func ProductsFromEntities(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ProductFromEntity(p))
	}
	return out
}
