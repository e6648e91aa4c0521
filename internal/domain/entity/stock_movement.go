package entity

import (
	"fmt"
	"time"
)

// MovementType tipo cerrado de movimiento de stock.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementIn         MovementType = "IN"         // entrada: cantidad como magnitud
	MovementOut        MovementType = "OUT"        // salida: cantidad como magnitud
	MovementAdjustment MovementType = "ADJUSTMENT" // ajuste: cantidad = stock objetivo
)

// ParseMovementType convierte el texto recibido en un MovementType válido.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(s)
	if !t.Valid() {
		return "", fmt.Errorf("tipo de movimiento desconocido %q", s)
	}
	return t, nil
}

// Valid indica si t es uno de los tres tipos soportados.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement registro inmutable de un cambio de stock.
// Quantity es el delta aplicado (positivo entrada, negativo salida), no lo que envió el cliente.
type StockMovement struct {
	ID             string
	OrganizationID string
	ProductID      string
	UserID         string
	Type           MovementType
	Quantity       int64
	Reason         string
	CreatedAt      time.Time
}

// StockMovementDetail movimiento con datos de producto y usuario para historial y exportación.
type StockMovementDetail struct {
	StockMovement
	ProductName  string
	ProductSKU   string
	CategoryID   string
	CategoryName string
	UserName     string
	UserEmail    string
	UserRole     string
}
