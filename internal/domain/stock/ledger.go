// Package stock contiene las reglas puras de conciliación de movimientos de stock:
// interpretación de IN / OUT / ADJUSTMENT y cálculo del delta que se aplica al contador.
package stock

import (
	"fmt"
	"math"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Direcciones usadas en la descripción de auditoría.
const (
	DirectionAdded    = "added"
	DirectionRemoved  = "removed"
	DirectionAdjusted = "adjusted"
)

// ComputeDelta calcula el delta firmado a aplicar sobre current.
//   - IN: |requested|. IN y OUT con cantidad cero son inválidos.
//   - OUT: -|requested|; falla con InsufficientStockError si el stock quedaría negativo.
//   - ADJUSTMENT: requested es el stock objetivo; negativo es inválido y un objetivo igual
//     al stock actual retorna ErrNoOpAdjustment.
func ComputeDelta(t entity.MovementType, requested, current int64) (int64, error) {
	switch t {
	case entity.MovementIn:
		mag, err := magnitude(requested)
		if err != nil {
			return 0, err
		}
		if current > math.MaxInt64-mag {
			return 0, fmt.Errorf("%w: el stock resultante excede el máximo permitido", domain.ErrInvalidInput)
		}
		return mag, nil

	case entity.MovementOut:
		mag, err := magnitude(requested)
		if err != nil {
			return 0, err
		}
		if current-mag < 0 {
			return 0, &domain.InsufficientStockError{Current: current, Requested: mag}
		}
		return -mag, nil

	case entity.MovementAdjustment:
		if requested < 0 {
			return 0, fmt.Errorf("%w: el stock objetivo no puede ser negativo", domain.ErrInvalidInput)
		}
		delta := requested - current
		if delta == 0 {
			return 0, domain.ErrNoOpAdjustment
		}
		return delta, nil
	}
	return 0, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, string(t))
}

// Direction describe el sentido del movimiento para mensajes y auditoría.
func Direction(t entity.MovementType) string {
	switch t {
	case entity.MovementIn:
		return DirectionAdded
	case entity.MovementOut:
		return DirectionRemoved
	default:
		return DirectionAdjusted
	}
}

// Magnitude valor absoluto de un delta.
func Magnitude(delta int64) int64 {
	if delta < 0 {
		return -delta
	}
	return delta
}

func magnitude(q int64) (int64, error) {
	if q == math.MinInt64 {
		return 0, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
	}
	if q == 0 {
		return 0, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if q < 0 {
		return -q, nil
	}
	return q, nil
}
