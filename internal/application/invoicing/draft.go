package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	invrules "github.com/jhoicas/facturador-api/internal/domain/invoice"
)

// Draft es el buffer mutable de edición de una factura. Es independiente
// del store hasta el envío: mutar el borrador nunca toca la colección.
//
// Un borrador sembrado desde un registro existente (modo edición)
// conserva el ID de ese registro; un borrador nuevo arranca desde los
// valores por defecto, con la fecha del día y sin filas.
type Draft struct {
	Invoice entity.Invoice
	editing bool
}

// NewDraft crea un borrador en modo alta con los valores por defecto.
func NewDraft(now time.Time) *Draft {
	return &Draft{
		Invoice: entity.Invoice{
			Date:    now.Format("2006-01-02"),
			TaxRate: decimal.Zero,
			Items:   []entity.LineItem{},
		},
	}
}

// DraftFrom siembra un borrador en modo edición como copia completa del
// registro dado.
func DraftFrom(inv *entity.Invoice) *Draft {
	return &Draft{Invoice: *inv.Clone(), editing: true}
}

// Editing indica si el borrador se originó en un registro existente.
func (d *Draft) Editing() bool { return d.editing }

// AddItem agrega al final una fila nueva con ID fresco, descripción
// vacía, cantidad 1 y tarifa 0, y la devuelve.
func (d *Draft) AddItem() entity.LineItem {
	item := entity.LineItem{
		ID:       uuid.NewString(),
		Quantity: decimal.NewFromInt(1),
		Rate:     decimal.Zero,
	}
	d.Invoice.Items = append(d.Invoice.Items, item)
	return item
}

// UpdateItem reemplaza por completo la fila en la posición dada (no es un
// merge: el caller entrega la fila actualizada entera).
func (d *Draft) UpdateItem(index int, item entity.LineItem) error {
	if index < 0 || index >= len(d.Invoice.Items) {
		return domain.ErrInvalidInput
	}
	d.Invoice.Items[index] = item
	return nil
}

// RemoveItem elimina la fila por ID. Se elimina por ID y no por índice
// porque el índice no es estable entre ediciones; un ID inexistente es un
// no-op.
func (d *Draft) RemoveItem(id string) {
	for i, it := range d.Invoice.Items {
		if it.ID == id {
			d.Invoice.Items = append(d.Invoice.Items[:i], d.Invoice.Items[i+1:]...)
			return
		}
	}
}

// AttachLogo adjunta un logo como data URI, reemplazando cualquier logo
// anterior: solo puede haber uno a la vez.
func (d *Draft) AttachLogo(dataURI string) {
	d.Invoice.Logo = dataURI
}

// DetachLogo quita el logo.
func (d *Draft) DetachLogo() {
	d.Invoice.Logo = ""
}

// Totals deriva los totales del borrador. Se recalculan en cada llamada
// desde Items y TaxRate; nunca se cachean.
func (d *Draft) Totals() invrules.Totals {
	return invrules.ComputeTotals(d.Invoice.Items, d.Invoice.TaxRate)
}

// Validate aplica las reglas de envío al borrador.
func (d *Draft) Validate() error {
	return invrules.Validate(&d.Invoice)
}

// finalize congela totales y fecha de actualización sobre una copia lista
// para el store.
func (d *Draft) finalize(now time.Time) *entity.Invoice {
	inv := d.Invoice.Clone()
	t := invrules.ComputeTotals(inv.Items, inv.TaxRate)
	inv.SubTotal = t.SubTotal
	inv.Tax = t.Tax
	inv.Total = t.Total
	inv.LastUpdated = now
	return inv
}
