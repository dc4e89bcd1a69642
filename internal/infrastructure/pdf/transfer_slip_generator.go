// Package pdf implementa la generación del remito imprimible de un préstamo
// de stock entre sucursales.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Remito de préstamo │ N° + Fecha + Estado            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRESTA: sucursal origen    │ SOLICITA: sucursal destino     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Prestado | Devuelto | Pend | Valor  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: valor en riesgo                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/salon-stock-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// SlipLine línea del remito ya resuelta (producto + cantidades + precio vigente).
type SlipLine struct {
	SKU         string
	ProductName string
	Lend        decimal.Decimal
	Returned    decimal.Decimal
	Remaining   decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // UnitPrice × Remaining
}

// SlipData datos completos para generar el remito.
type SlipData struct {
	Transfer    *entity.Transfer
	From        *entity.Branch
	To          *entity.Branch
	Lines       []SlipLine
	ValueAtRisk decimal.Decimal
}

// TransferSlipGenerator genera el remito usando Maroto v2.
type TransferSlipGenerator struct{}

// NewTransferSlipGenerator construye el generador.
func NewTransferSlipGenerator() *TransferSlipGenerator { return &TransferSlipGenerator{} }

// GenerateTransferSlip genera el PDF y devuelve sus bytes.
func (g *TransferSlipGenerator) GenerateTransferSlip(_ context.Context, data SlipData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remito de préstamo entre sucursales", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Transfer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(branchesRow(data.From, data.To))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(data.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data.ValueAtRisk))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remito: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y número + fecha + estado (der).
func headerRow(t *entity.Transfer) core.Row {
	fecha := t.CreatedAt.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REMITO DE PRÉSTAMO ENTRE SUCURSALES", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Tipo: solicitud de préstamo de stock", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+t.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Estado: "+t.Status+" / "+t.RequestStatus, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 13, Color: colorPrimary,
			}),
		),
	)
}

// branchesRow: sucursal que presta y sucursal que solicita, lado a lado.
func branchesRow(from, to *entity.Branch) core.Row {
	branchCol := func(label string, b *entity.Branch) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(b.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("%s   |   Tel: %s",
				nonEmpty(b.Address, "—"), nonEmpty(b.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		)
	}
	return row.New(16).Add(
		branchCol("SUCURSAL QUE PRESTA", from),
		branchCol("SUCURSAL QUE SOLICITA", to),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Prestado", 1, align.Center),
		h("Devuelto", 1, align.Center),
		h("Pendiente", 1, align.Center),
		h("P. Unit.", 1, align.Right),
		h("Valor pendiente", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea del préstamo.
func tableDetailRows(lines []SlipLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.SKU, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Lend.StringFixed(0), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(l.Returned.StringFixed(0), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(l.Remaining.StringFixed(0), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(l.UnitPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(l.Amount.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalRow: valor en riesgo total alineado a la derecha.
func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(4).Add(text.New("VALOR EN RIESGO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(2).Add(text.New(total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
