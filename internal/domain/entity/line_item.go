package entity

import "github.com/shopspring/decimal"

// LineItem representa una fila facturable: una cantidad de un bien o
// servicio descrito, a una tarifa unitaria.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// Amount devuelve el importe derivado de la fila (cantidad × tarifa).
// Nunca se persiste como autoritativo: se recalcula siempre desde
// Quantity y Rate, tanto para mostrar como para los totales.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Rate)
}
