// Package invoice contiene las reglas puras de derivación y validación de
// facturas: totales desde las filas, redondeo a 2 decimales y coerción de
// entrada numérica del formulario. No tiene estado ni dependencias de
// infraestructura.
package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals agrupa los tres montos derivados de una factura, ya redondeados.
type Totals struct {
	SubTotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals deriva subtotal, impuesto y total desde las filas y la
// tasa de impuesto. Es una función pura: mismo input, mismos montos.
//
//	subTotal = round2(Σ quantity_i × rate_i)
//	tax      = round2(subTotal × taxRate / 100)
//	total    = round2(subTotal + tax)
//
// Se recalcula en cada consulta; los totales nunca se cachean entre
// mutaciones de filas o de la tasa.
func ComputeTotals(items []entity.LineItem, taxRate decimal.Decimal) Totals {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(it.Amount())
	}
	sub = sub.Round(2)
	tax := sub.Mul(taxRate).Div(hundred).Round(2)
	return Totals{
		SubTotal: sub,
		Tax:      tax,
		Total:    sub.Add(tax).Round(2),
	}
}

// CoerceNumber convierte la entrada de texto de un campo numérico del
// formulario a decimal. Input no numérico o vacío se coacciona a 0
// durante la edición; la validación al enviar es la que decide si 0 es
// aceptable para ese campo.
func CoerceNumber(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
