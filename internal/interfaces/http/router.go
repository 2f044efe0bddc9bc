package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturador-api/internal/application/invoicing"
	"github.com/jhoicas/facturador-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store      *invoicing.Store
	Session    *invoicing.Session
	InvoicePDF *invoicing.PDFUseCase
	Log        *logger.Logger
}

// Router registra las rutas de la API. Es el espejo de la superficie de
// navegación del builder: listado (dashboard), alta, edición, vista
// previa y exportación, más la selección transitoria de sesión.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	invoiceHandler := NewInvoiceHandler(deps.Store, deps.Session, deps.InvoicePDF)
	invoices := api.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.Preview)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	sessionHandler := NewSessionHandler(deps.Session)
	session := api.Group("/session")
	session.Get("/", sessionHandler.State)
	session.Get("/draft", sessionHandler.Draft)
	session.Put("/current", sessionHandler.Select)
	session.Delete("/current", sessionHandler.Deselect)
	session.Post("/create", sessionHandler.OpenCreate)
	session.Post("/edit", sessionHandler.OpenEdit)
	session.Post("/reset", sessionHandler.Reset)

	assetHandler := NewAssetHandler(deps.Log)
	api.Post("/assets/logo", assetHandler.UploadLogo)
}
