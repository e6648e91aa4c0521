package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func TestDayBounds(t *testing.T) {
	from, to, err := stock.DayBounds("2024-03-01", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, 999_000_000, time.UTC), *to)

	from, to, err = stock.DayBounds("", "")
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = stock.DayBounds("01/03/2024", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = stock.DayBounds("2024-03-05", "2024-03-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_PaginaYFiltra(t *testing.T) {
	f := newFixture(t, 100)
	for i := 0; i < 5; i++ {
		_, err := f.apply(t, entity.MovementOut, 1)
		require.NoError(t, err)
	}
	_, err := f.apply(t, entity.MovementIn, 10)
	require.NoError(t, err)

	uc := stock.NewHistoryUseCase(f.store.MovementsRepo())

	res, err := uc.History(context.Background(), orgID, dto.StockHistoryQuery{
		PageRequest: dto.PageRequest{Page: 2, Limit: 2},
		Type:        "OUT",
	})
	require.NoError(t, err)
	assert.Equal(t, dto.PageMeta{Total: 5, Page: 2, Limit: 2, TotalPages: 3}, res.Meta)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "OUT", res.Data[0].Type)
	assert.Equal(t, "TOR-38", res.Data[0].Product.SKU)

	res, err = uc.History(context.Background(), otherOrg, dto.StockHistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Data, "aislamiento por organización")
	assert.Equal(t, stock.HistoryDefaultLimit, res.Meta.Limit)
}

func TestHistory_TipoInvalido(t *testing.T) {
	f := newFixture(t, 1)
	uc := stock.NewHistoryUseCase(f.store.MovementsRepo())
	_, err := uc.History(context.Background(), orgID, dto.StockHistoryQuery{Type: "TRANSFER"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
