package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa una factura completa: metadatos, partes (emisor y
// cliente), filas de detalle y totales derivados.
//
// Una factura es o bien un borrador (vive solo en el buffer de edición,
// sin ID asignado) o un registro persistido (presente en la colección del
// store, con ID y CreatedAt). El paso borrador → persistido es de una sola
// vía: alta (create) o reemplazo completo por ID (update); no hay updates
// parciales.
//
// Date y DueDate se guardan como fecha de formulario (YYYY-MM-DD), igual
// que el resto de campos de texto libre. Los montos usan decimal y se
// serializan como strings en JSON, de modo que los totales congelados al
// enviar quedan persistidos exactamente como se calcularon.
type Invoice struct {
	ID             string          `json:"id,omitempty"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	Date           string          `json:"date"`
	DueDate        string          `json:"dueDate"`
	ClientName     string          `json:"clientName"`
	ClientAddress  string          `json:"clientAddress"`
	ClientEmail    string          `json:"clientEmail"`
	ClientPhone    string          `json:"clientPhone"`
	CompanyName    string          `json:"companyName"`
	CompanyAddress string          `json:"companyAddress"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Notes          string          `json:"notes"`
	Terms          string          `json:"terms"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	Items          []LineItem      `json:"items"`

	// Logo opcional embebido como data URI (data:image/...;base64,...),
	// vacío si no hay logo adjunto.
	Logo string `json:"logo,omitempty"`

	// Totales congelados al enviar el formulario (redondeados a 2
	// decimales). Se recalculan siempre desde Items y TaxRate antes de
	// persistir; nunca se reutilizan de un envío anterior.
	SubTotal decimal.Decimal `json:"subTotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`

	CreatedAt   time.Time `json:"createdAt,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
}

// Clone devuelve una copia profunda de la factura. Las filas se copian
// para que mutar un borrador nunca se filtre a la colección del store ni
// a otros borradores.
func (inv *Invoice) Clone() *Invoice {
	cp := *inv
	if inv.Items != nil {
		cp.Items = make([]LineItem, len(inv.Items))
		copy(cp.Items, inv.Items)
	}
	return &cp
}
