package stock_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/stock"
)

func TestComputeDelta(t *testing.T) {
	tests := []struct {
		name      string
		typ       entity.MovementType
		requested int64
		current   int64
		want      int64
		wantErr   error
	}{
		{"IN positivo", entity.MovementIn, 5, 10, 5, nil},
		{"IN negativo se normaliza", entity.MovementIn, -5, 10, 5, nil},
		{"IN cero", entity.MovementIn, 0, 10, 0, domain.ErrInvalidInput},
		{"OUT cero", entity.MovementOut, 0, 10, 0, domain.ErrInvalidInput},
		{"OUT dentro del stock", entity.MovementOut, 2, 15, -2, nil},
		{"OUT negativo se normaliza", entity.MovementOut, -2, 15, -2, nil},
		{"OUT deja stock en cero", entity.MovementOut, 15, 15, -15, nil},
		{"OUT insuficiente", entity.MovementOut, 25, 20, 0, domain.ErrInsufficientStock},
		{"OUT con stock cero", entity.MovementOut, 1, 0, 0, domain.ErrInsufficientStock},
		{"ADJUSTMENT sube", entity.MovementAdjustment, 20, 13, 7, nil},
		{"ADJUSTMENT baja", entity.MovementAdjustment, 3, 13, -10, nil},
		{"ADJUSTMENT a cero", entity.MovementAdjustment, 0, 13, -13, nil},
		{"ADJUSTMENT igual al actual", entity.MovementAdjustment, 13, 13, 0, domain.ErrNoOpAdjustment},
		{"ADJUSTMENT negativo", entity.MovementAdjustment, -1, 13, 0, domain.ErrInvalidInput},
		{"tipo desconocido", entity.MovementType("TRANSFER"), 1, 13, 0, domain.ErrInvalidInput},
		{"IN desborda", entity.MovementIn, 1, math.MaxInt64, 0, domain.ErrInvalidInput},
		{"OUT MinInt64", entity.MovementOut, math.MinInt64, 10, 0, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stock.ComputeDelta(tt.typ, tt.requested, tt.current)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error %v no es %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDelta_InsufficientStockDetalle(t *testing.T) {
	_, err := stock.ComputeDelta(entity.MovementOut, -25, 20)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(20), ise.Current)
	assert.Equal(t, int64(25), ise.Requested, "la cantidad solicitada se reporta como magnitud")
	assert.Contains(t, err.Error(), "20")
	assert.Contains(t, err.Error(), "25")
}

func TestComputeDelta_SecuenciaConservaStock(t *testing.T) {
	current := int64(15)
	steps := []struct {
		typ entity.MovementType
		q   int64
	}{
		{entity.MovementOut, 2},
		{entity.MovementAdjustment, 20},
		{entity.MovementIn, -4},
		{entity.MovementOut, 25},
		{entity.MovementAdjustment, 24},
		{entity.MovementOut, 24},
	}
	initial := current
	var sum int64
	for _, s := range steps {
		d, err := stock.ComputeDelta(s.typ, s.q, current)
		if err != nil {
			continue
		}
		current += d
		sum += d
		require.GreaterOrEqual(t, current, int64(0))
	}
	assert.Equal(t, initial+sum, current)
	assert.Equal(t, int64(0), current)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "added", stock.Direction(entity.MovementIn))
	assert.Equal(t, "removed", stock.Direction(entity.MovementOut))
	assert.Equal(t, "adjusted", stock.Direction(entity.MovementAdjustment))
	assert.Equal(t, int64(7), stock.Magnitude(-7))
}
