package invoice

import (
	"fmt"
	"strings"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// Validate aplica las reglas de envío del formulario. Todas las
// condiciones deben cumplirse a la vez:
//
//  1. invoiceNumber, clientName, clientAddress, clientEmail, companyName
//     y companyAddress no vacíos tras recortar espacios.
//  2. date y dueDate presentes.
//  3. al menos una fila.
//  4. cada fila con descripción no vacía, quantity > 0 y rate >= 0.
//
// Devuelve nil si el borrador es válido; si no, un error que envuelve
// domain.ErrInvalidInput con el detalle de los campos que faltan.
func Validate(inv *entity.Invoice) error {
	var missing []string

	required := []struct {
		name, value string
	}{
		{"invoiceNumber", inv.InvoiceNumber},
		{"clientName", inv.ClientName},
		{"clientAddress", inv.ClientAddress},
		{"clientEmail", inv.ClientEmail},
		{"companyName", inv.CompanyName},
		{"companyAddress", inv.CompanyAddress},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if inv.Date == "" {
		missing = append(missing, "date")
	}
	if inv.DueDate == "" {
		missing = append(missing, "dueDate")
	}

	if len(inv.Items) == 0 {
		missing = append(missing, "items")
	}
	for i, it := range inv.Items {
		switch {
		case strings.TrimSpace(it.Description) == "":
			missing = append(missing, fmt.Sprintf("items[%d].description", i))
		case !it.Quantity.IsPositive():
			missing = append(missing, fmt.Sprintf("items[%d].quantity", i))
		case it.Rate.IsNegative():
			missing = append(missing, fmt.Sprintf("items[%d].rate", i))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// IsValid es el atajo booleano de Validate.
func IsValid(inv *entity.Invoice) bool {
	return Validate(inv) == nil
}
