package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func TestLowStockReport_GeneraPDF(t *testing.T) {
	products := []*entity.Product{
		{SKU: "TOR-1", Name: "Tornillo", CategoryName: "Herrajes", CurrentStock: 0, MinimumStock: 10, Unit: "pcs"},
		{SKU: "PIN-2", Name: "Pintura", CurrentStock: 3, MinimumStock: 5, Unit: "lt"},
	}
	b, err := NewMarotoPDFGenerator().LowStockReport("Acme", products, time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestLowStockReport_SinProductos(t *testing.T) {
	b, err := NewMarotoPDFGenerator().LowStockReport("", nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestFormatUnits(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1.000",
		25000:   "25.000",
		1000000: "1.000.000",
		-1200:   "-1.200",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatUnits(in))
	}
}
