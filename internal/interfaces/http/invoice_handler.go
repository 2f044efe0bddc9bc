package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/application/invoicing"
	"github.com/jhoicas/facturador-api/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP del ciclo de vida de
// facturas: listado, envío de formulario (alta y edición), vista previa,
// borrado y exportación PDF.
type InvoiceHandler struct {
	store   *invoicing.Store
	session *invoicing.Session
	pdf     *invoicing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(store *invoicing.Store, session *invoicing.Session, pdf *invoicing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{store: store, session: session, pdf: pdf}
}

// List devuelve la colección completa en orden de inserción. Volver al
// listado también devuelve la sesión a la fase inicial, descartando
// borrador y selección como al navegar de vuelta al dashboard.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	h.session.ToList()
	return c.JSON(h.store.List())
}

// Create envía un formulario de alta: valida, congela totales, crea el
// registro y deja la sesión en la vista previa del ID nuevo.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft := invoicing.DraftFromForm(in, "")
	inv, err := h.session.Submit(draft, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "Please fill all required fields and add at least one item.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Location("/api/invoices/" + inv.ID)
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// Update envía un formulario de edición: reemplazo completo del registro
// por ID. Un ID inexistente deja la colección intacta y responde 404
// (condición reportable, no fatal).
// PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.InvoiceDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft := invoicing.DraftFromForm(in, id)
	inv, err := h.session.Submit(draft, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "Please fill all required fields and add at least one item.",
			})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(inv)
}

// Preview devuelve la factura seleccionada para la vista previa. Sin
// selección actual redirige al listado, igual que la ruta original; un ID
// que no coincide con la selección responde 404 sin tocar la fase.
// GET /api/invoices/:id
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	current, err := h.session.ToPreview(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNoSelection) {
			return c.Redirect("/api/invoices", fiber.StatusSeeOther)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(current)
}

// Delete elimina por ID; idempotente: borrar un ID inexistente también
// responde 204.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	h.store.Delete(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF exporta la factura como documento A4. Un fallo de
// generación se reporta al usuario sin comprometer estado.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "EXPORT_FAILED",
			Message: "Could not export PDF — please try again.",
		})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
