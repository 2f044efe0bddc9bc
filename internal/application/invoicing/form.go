package invoicing

import (
	"github.com/google/uuid"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	invrules "github.com/jhoicas/facturador-api/internal/domain/invoice"
)

// DraftFromForm construye un borrador desde el estado completo del
// formulario. Con id vacío es un alta; con id es una edición (reemplazo
// total del registro con ese id).
//
// Los campos numéricos llegan como texto del input y se coaccionan a 0 si
// no parsean; las filas sin id reciben uno fresco.
func DraftFromForm(in dto.InvoiceDraftRequest, id string) *Draft {
	items := make([]entity.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		itemID := it.ID
		if itemID == "" {
			itemID = uuid.NewString()
		}
		items = append(items, entity.LineItem{
			ID:          itemID,
			Description: it.Description,
			Quantity:    invrules.CoerceNumber(it.Quantity),
			Rate:        invrules.CoerceNumber(it.Rate),
		})
	}

	return &Draft{
		Invoice: entity.Invoice{
			ID:             id,
			InvoiceNumber:  in.InvoiceNumber,
			Date:           in.Date,
			DueDate:        in.DueDate,
			ClientName:     in.ClientName,
			ClientAddress:  in.ClientAddress,
			ClientEmail:    in.ClientEmail,
			ClientPhone:    in.ClientPhone,
			CompanyName:    in.CompanyName,
			CompanyAddress: in.CompanyAddress,
			Email:          in.Email,
			Phone:          in.Phone,
			Notes:          in.Notes,
			Terms:          in.Terms,
			TaxRate:        invrules.CoerceNumber(in.TaxRate),
			Logo:           in.Logo,
			Items:          items,
		},
		editing: id != "",
	}
}
