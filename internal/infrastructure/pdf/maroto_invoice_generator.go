// Package pdf implementa la exportación imprimible de una factura usando
// Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Logo (o razón social)  │  INVOICE + N° + fechas     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: cliente (nombre, dirección, email, teléfono)       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Description | Qty | Rate | Amount                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Tax / TOTAL                             │
//	│  FOOTER: Notes + Terms                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/facturador-api/internal/application/invoicing"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 41, Blue: 59}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoInvoiceGenerator implementa invoicing.PDFGenerator usando Maroto v2.
type MarotoInvoiceGenerator struct {
	currency string
}

var _ invoicing.PDFGenerator = (*MarotoInvoiceGenerator)(nil)

// NewMarotoInvoiceGenerator construye el generador con el símbolo de
// moneda fijo de la aplicación.
func NewMarotoInvoiceGenerator(currency string) *MarotoInvoiceGenerator {
	return &MarotoInvoiceGenerator{currency: currency}
}

// GenerateInvoicePDF genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoInvoiceGenerator) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(inv.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.itemRows(inv.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(inv))

	for _, r := range footerRows(inv) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo o razón social del emisor (izq) y número + fechas (der).
func (g *MarotoInvoiceGenerator) headerRow(inv *entity.Invoice) core.Row {
	left := col.New(7)
	if logoBytes, ext, err := decodeLogo(inv.Logo); err == nil {
		left.Add(image.NewFromBytes(logoBytes, ext, props.Rect{Percent: 80}))
	} else {
		left.Add(
			text.New(nonEmpty(inv.CompanyName, "Company Name"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		)
	}
	left.Add(
		text.New(inv.CompanyAddress, props.Text{Size: 8, Top: 14, Color: colorGray}),
		text.New(contactLine(inv.Email, inv.Phone), props.Text{Size: 8, Top: 18, Color: colorGray}),
	)

	return row.New(24).Add(
		left,
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Invoice No: "+nonEmpty(inv.InvoiceNumber, "0000"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 9,
			}),
			text.New("Date: "+inv.Date, props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
			text.New("Due Date: "+inv.DueDate, props.Text{
				Size: 8, Align: align.Right, Top: 19, Color: colorGray,
			}),
		),
	)
}

// billToRow: datos del cliente.
func billToRow(inv *entity.Invoice) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.ClientName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(inv.ClientAddress, props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(contactLine(inv.ClientEmail, inv.ClientPhone), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de filas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 1, align.Center),
		h("Rate", 2, align.Right),
		h("Amount", 3, align.Right),
	)
}

// itemRows: una fila de tabla por línea; el importe se deriva siempre de
// cantidad × tarifa, nunca de un valor almacenado.
func (g *MarotoInvoiceGenerator) itemRows(items []entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				g.currency+it.Rate.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				g.currency+it.Amount().StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales congelados, alineado a la derecha.
func (g *MarotoInvoiceGenerator) totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	taxLabel := fmt.Sprintf("Tax (%s%%):", inv.TaxRate.String())

	return row.New(22).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			label(taxLabel),
			grandLabel("TOTAL:"),
		),
		col.New(4).Add(
			value(g.currency+inv.SubTotal.StringFixed(2)),
			value(g.currency+inv.Tax.StringFixed(2)),
			grandValue(g.currency+inv.Total.StringFixed(2)),
		),
	)
}

// footerRows: notas y condiciones, si las hay.
func footerRows(inv *entity.Invoice) []core.Row {
	var rows []core.Row
	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		rows = append(rows,
			row.New(6).Add(col.New(12).Add(
				text.New(title, props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
				}),
			)),
			row.New(8).Add(col.New(12).Add(
				text.New(body, props.Text{Size: 8, Color: colorGray, Top: 1}),
			)),
		)
	}
	section("Notes", inv.Notes)
	section("Terms & Conditions", inv.Terms)
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// decodeLogo descompone un data URI (data:image/...;base64,...) en bytes
// y extensión soportada por Maroto.
func decodeLogo(dataURI string) ([]byte, extension.Type, error) {
	if dataURI == "" {
		return nil, "", fmt.Errorf("pdf: sin logo")
	}
	head, payload, ok := strings.Cut(dataURI, ",")
	if !ok {
		return nil, "", fmt.Errorf("pdf: data URI de logo malformado")
	}

	var ext extension.Type
	switch {
	case strings.Contains(head, "image/png"):
		ext = extension.Png
	case strings.Contains(head, "image/jpeg"), strings.Contains(head, "image/jpg"):
		ext = extension.Jpg
	default:
		return nil, "", fmt.Errorf("pdf: tipo de logo no soportado: %s", head)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: decodificar logo: %w", err)
	}
	return raw, ext, nil
}

func contactLine(email, phone string) string {
	return nonEmpty(email, "—") + " | " + nonEmpty(phone, "—")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
