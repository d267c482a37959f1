// Package pdf genera el reporte de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de exportación + N° de ítems         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ítem | Categoría | Cant. | Precio | Proveedor        │
//	│         (descripción en línea gris debajo, si existe)        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades / valor estimado                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

var _ inventory.Exporter = (*ReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 173, Green: 216, Blue: 230}
)

// ReportGenerator implementa inventory.Exporter usando Maroto v2.
type ReportGenerator struct {
	title string
	now   func() time.Time
}

// NewReportGenerator construye el generador.
func NewReportGenerator(title string) *ReportGenerator {
	if title == "" {
		title = "Inventory Items"
	}
	return &ReportGenerator{title: title, now: time.Now}
}

func (g *ReportGenerator) Format() string      { return "pdf" }
func (g *ReportGenerator) ContentType() string { return "application/pdf" }
func (g *ReportGenerator) FileName() string    { return "inventory.pdf" }

// Export genera el PDF y devuelve sus bytes.
func (g *ReportGenerator) Export(_ context.Context, items []*entity.Item) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, g.now(), len(items)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(Totals(items)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time, count int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Exportado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d ítems", count), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ítem", 4, align.Left),
		h("Categoría", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio", 2, align.Right),
		h("Proveedor", 3, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

// tableItemRows: una fila por ítem y, si hay descripción, una fila gris debajo.
func tableItemRows(items []*entity.Item) []core.Row {
	result := make([]core.Row, 0, len(items)*2)
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(capitalize(it.Name), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(it.Category, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.FormatInt(it.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatPrice(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(nonEmpty(it.Supplier, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
		))
		if it.Description != "" {
			result = append(result, row.New(5).Add(
				col.New(12).Add(text.New(it.Description, props.Text{Size: 7, Color: colorGray, Left: 3})),
			))
		}
	}
	return result
}

func totalsRow(t ReportTotals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Unidades:"),
			text.New("Valor estimado:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
		),
		col.New(3).Add(
			value(strconv.FormatInt(t.Units, 10), 0),
			value("$"+t.Value.StringFixed(2), 6),
		),
	)
}

// ReportTotals resumen del pie del reporte.
type ReportTotals struct {
	Units int64
	Value decimal.Decimal // Σ cantidad × precio de los ítems con precio numérico
}

// Totals suma unidades y valor; los precios vacíos o no numéricos no aportan valor.
func Totals(items []*entity.Item) ReportTotals {
	t := ReportTotals{Value: decimal.Zero}
	for _, it := range items {
		t.Units += it.Quantity
		p, err := decimal.NewFromString(strings.TrimSpace(it.Price))
		if err != nil {
			continue
		}
		t.Value = t.Value.Add(p.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return t
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatPrice(p string) string {
	if p == "" {
		return "-"
	}
	return "$" + p
}

// capitalize primera letra en mayúscula, como la lista de la interfaz.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
