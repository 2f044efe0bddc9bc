package invoicing

import (
	"context"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// PDFGenerator produce el documento paginado (A4) de una factura ya
// resuelta, con sus totales congelados. Es un colaborador externo: la
// generación es I/O y puede fallar; el fallo se reporta al usuario sin
// comprometer estado.
type PDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice) ([]byte, error)
}
