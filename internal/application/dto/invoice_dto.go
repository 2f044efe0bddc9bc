package dto

// LineItemRequest una fila del formulario. Quantity y Rate llegan como
// texto del input y se coaccionan a 0 si no son numéricos; la validación
// al enviar decide si 0 es aceptable.
type LineItemRequest struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
}

// InvoiceDraftRequest body de POST /api/invoices y PUT /api/invoices/:id:
// el estado completo del formulario. El update es siempre un reemplazo
// total del registro, nunca un patch.
type InvoiceDraftRequest struct {
	InvoiceNumber  string            `json:"invoiceNumber"`
	Date           string            `json:"date"`
	DueDate        string            `json:"dueDate"`
	ClientName     string            `json:"clientName"`
	ClientAddress  string            `json:"clientAddress"`
	ClientEmail    string            `json:"clientEmail"`
	ClientPhone    string            `json:"clientPhone"`
	CompanyName    string            `json:"companyName"`
	CompanyAddress string            `json:"companyAddress"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Notes          string            `json:"notes"`
	Terms          string            `json:"terms"`
	TaxRate        string            `json:"taxRate"`
	Logo           string            `json:"logo,omitempty"`
	Items          []LineItemRequest `json:"items"`
}

// SelectInvoiceRequest body de PUT /api/session/current.
type SelectInvoiceRequest struct {
	ID string `json:"id"`
}

// LogoResponse respuesta de POST /api/assets/logo: la imagen convertida a
// data URI, lista para embeber en el borrador.
type LogoResponse struct {
	Logo string `json:"logo"`
}
