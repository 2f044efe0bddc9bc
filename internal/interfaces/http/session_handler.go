package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/application/invoicing"
	"github.com/jhoicas/facturador-api/internal/domain"
)

// SessionHandler expone la máquina de estados de navegación: selección
// transitoria, apertura de formularios y reset.
type SessionHandler struct {
	session *invoicing.Session
}

// NewSessionHandler construye el handler.
func NewSessionHandler(session *invoicing.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// State devuelve la fase actual de la sesión.
// GET /api/session
func (h *SessionHandler) State(c *fiber.Ctx) error {
	return c.JSON(h.session.State())
}

// Draft devuelve el borrador del formulario abierto, o 404 si no hay
// ninguno (fases de listado y vista previa).
// GET /api/session/draft
func (h *SessionHandler) Draft(c *fiber.Ctx) error {
	draft := h.session.Draft()
	if draft == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_DRAFT", Message: "no hay formulario abierto"})
	}
	return c.JSON(draft.Invoice)
}

// Select resuelve un ID contra la colección y lo deja como selección
// actual, para sembrar una edición o llevar el registro a la vista previa.
// PUT /api/session/current
func (h *SessionHandler) Select(c *fiber.Ctx) error {
	var in dto.SelectInvoiceRequest
	if err := c.BodyParser(&in); err != nil || in.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "id requerido"})
	}
	inv, err := h.session.Select(in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(inv)
}

// Deselect limpia la selección actual.
// DELETE /api/session/current
func (h *SessionHandler) Deselect(c *fiber.Ctx) error {
	h.session.Deselect()
	return c.SendStatus(fiber.StatusNoContent)
}

// OpenCreate abre el formulario de alta con un borrador por defecto.
// POST /api/session/create
func (h *SessionHandler) OpenCreate(c *fiber.Ctx) error {
	draft := h.session.ToCreate(time.Now())
	return c.JSON(draft.Invoice)
}

// OpenEdit abre el formulario de edición sembrado desde la selección
// actual. Sin selección redirige al listado, igual que la ruta /edit
// original.
// POST /api/session/edit
func (h *SessionHandler) OpenEdit(c *fiber.Ctx) error {
	draft, err := h.session.ToEdit()
	if err != nil {
		if errors.Is(err, domain.ErrNoSelection) {
			return c.Redirect("/api/invoices", fiber.StatusSeeOther)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(draft.Invoice)
}

// Reset descarta el borrador de vuelta a los valores por defecto y limpia
// la selección, independiente de la validez de lo escrito.
// POST /api/session/reset
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	draft := h.session.Reset(time.Now())
	return c.JSON(draft.Invoice)
}
