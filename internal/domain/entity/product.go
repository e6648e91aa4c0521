package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive       = "ACTIVE"
	ProductStatusInactive     = "INACTIVE"
	ProductStatusDiscontinued = "DISCONTINUED"
)

// ExpiringSoonWindow horizonte para considerar un producto "por vencer".
const ExpiringSoonWindow = 30 * 24 * time.Hour

// Product representa un producto del inventario de una organización.
// CurrentStock solo cambia vía movimientos (StockLedger); nunca es negativo.
type Product struct {
	ID             string
	OrganizationID string
	CategoryID     string
	Name           string
	SKU            string // único por organización
	Description    string
	ImageURL       string
	CostPrice      decimal.Decimal
	SellingPrice   decimal.Decimal
	CurrentStock   int64
	MinimumStock   int64 // punto de reorden
	Unit           string
	Status         string // ACTIVE, INACTIVE, DISCONTINUED
	ExpirationDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	CategoryName string // solo lectura (JOIN)
}

// IsLowStock stock en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}

// StockValue costo del stock disponible (costPrice * currentStock).
func (p *Product) StockValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(p.CurrentStock))
}

// ValidProductStatus indica si s es un estado soportado.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}
