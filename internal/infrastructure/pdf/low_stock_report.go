// Package pdf genera el reporte de stock bajo en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organización         │  Título + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos bajo el mínimo / sin stock              │
//	│  TABLA: SKU | Producto | Categoría | Stock | Mín. | Faltan   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 176, Green: 32, Blue: 32}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.LowStockPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa usecase.LowStockPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// LowStockReport genera el PDF del reporte de stock bajo y devuelve sus bytes.
func (g *MarotoPDFGenerator) LowStockReport(orgName string, products []*entity.Product, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Low Stock Report", true).
		WithAuthor(nonEmpty(orgName, "Stockflow"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(orgName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(products))
	m.AddRows(line.NewRow(2))

	if len(products) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("All active products are above their minimum stock.", props.Text{
				Size: 10, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(products)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Active products with current stock at or below the minimum stock level.", props.Text{
			Size: 7, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organización (izq) y título + fecha (der).
func headerRow(orgName string, generatedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(orgName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Inventory", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("LOW STOCK REPORT", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generated: "+generatedAt.UTC().Format("2006-01-02 15:04 UTC"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: conteos del reporte.
func summaryRow(products []*entity.Product) core.Row {
	out := 0
	for _, p := range products {
		if p.CurrentStock == 0 {
			out++
		}
	}
	return row.New(10).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Products at or below minimum: %d", len(products)), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 3,
		})),
		col.New(6).Add(text.New(fmt.Sprintf("Out of stock: %d", out), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 3, Align: align.Right, Color: colorDanger,
		})),
	)
}

// tableHeaderRow: cabecera de la tabla.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Product", 4, align.Left),
		h("Category", 2, align.Left),
		h("Stock", 1, align.Right),
		h("Min.", 1, align.Right),
		h("Missing", 2, align.Right),
	)
}

// tableRows: una fila por producto, alternando fondo.
func tableRows(products []*entity.Product) []core.Row {
	rows := make([]core.Row, 0, len(products))
	for i, p := range products {
		stockColor := colorGray
		if p.CurrentStock == 0 {
			stockColor = colorDanger
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		r := row.New(7).Add(
			cell(p.SKU, 2, align.Left),
			cell(p.Name, 4, align.Left),
			cell(nonEmpty(p.CategoryName, usecase.UncategorizedName), 2, align.Left),
			col.New(1).Add(text.New(formatUnits(p.CurrentStock), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Style: fontstyle.Bold, Color: stockColor,
			})),
			cell(formatUnits(p.MinimumStock), 1, align.Right),
			cell(formatUnits(p.MinimumStock-p.CurrentStock)+" "+p.Unit, 2, align.Right),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		rows = append(rows, r)
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatUnits inserta separadores de miles. Ej: 25000 → "25.000", -1200 → "-1.200".
func formatUnits(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
