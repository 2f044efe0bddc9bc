package invoicing

import (
	"context"
	"fmt"
)

// PDFUseCase exporta la representación imprimible de una factura.
type PDFUseCase struct {
	store     *Store
	generator PDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(store *Store, generator PDFGenerator) *PDFUseCase {
	return &PDFUseCase{store: store, generator: generator}
}

// DownloadInvoicePDF resuelve la factura por ID y genera su PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - error de generación        si el colaborador de render falla; no se
//     compromete ningún estado parcial.
//
// El nombre de archivo se deriva del número de factura:
// invoice-<número>.pdf, o invoice-preview.pdf si no hay número.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.store.Get(id)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = "invoice-preview.pdf"
	if inv.InvoiceNumber != "" {
		filename = fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber)
	}
	return pdfBytes, filename, nil
}
