package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/application/invoicing"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	apphttp "github.com/jhoicas/facturador-api/internal/interfaces/http"
	"github.com/jhoicas/facturador-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// nopPersister descarta las escrituras; el estado en memoria alcanza para
// los tests de handlers.
type nopPersister struct{}

func (nopPersister) Load() ([]*entity.Invoice, error) { return nil, nil }
func (nopPersister) Save([]*entity.Invoice) error     { return nil }

// stubPDF genera bytes fijos; el layout real se prueba en el paquete pdf.
type stubPDF struct{}

func (stubPDF) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

func buildTestApp(t *testing.T) (*fiber.App, *invoicing.Store) {
	t.Helper()
	log := logger.NewNop()
	store := invoicing.NewStore(nopPersister{}, log)
	session := invoicing.NewSession(store, log)
	pdfUC := invoicing.NewPDFUseCase(store, stubPDF{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Store:      store,
		Session:    session,
		InvoicePDF: pdfUC,
		Log:        log,
	})
	return app, store
}

func validForm(number string) dto.InvoiceDraftRequest {
	return dto.InvoiceDraftRequest{
		InvoiceNumber:  number,
		Date:           "2025-06-01",
		DueDate:        "2025-07-01",
		ClientName:     "ACME S.A.",
		ClientAddress:  "Calle 1 #2-3",
		ClientEmail:    "acme@example.com",
		CompanyName:    "Mi Empresa",
		CompanyAddress: "Carrera 4 #5-6",
		TaxRate:        "10",
		Items: []dto.LineItemRequest{
			{Description: "Consultoría", Quantity: "2", Rate: "100"},
			{Description: "Soporte", Quantity: "1", Rate: "50"},
		},
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeInvoice(t *testing.T, resp *http.Response) entity.Invoice {
	t.Helper()
	defer resp.Body.Close()
	var inv entity.Invoice
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inv))
	return inv
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y listado
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateInvoice_Valida(t *testing.T) {
	app, store := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", validForm("INV-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	inv := decodeInvoice(t, resp)
	assert.NotEmpty(t, inv.ID, "el store asigna el ID")
	assert.Equal(t, "250.00", inv.SubTotal.StringFixed(2), "los totales se congelan al crear")
	assert.Equal(t, "25.00", inv.Tax.StringFixed(2))
	assert.Equal(t, "275.00", inv.Total.StringFixed(2))
	assert.Len(t, store.List(), 1)
}

func TestCreateInvoice_ValidacionFallida(t *testing.T) {
	app, store := buildTestApp(t)

	in := validForm("INV-1")
	in.Items = nil
	resp := doJSON(t, app, http.MethodPost, "/api/invoices", in)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Empty(t, store.List(), "un envío inválido no muta el store")
}

func TestListInvoices_OrdenDeInsercion(t *testing.T) {
	app, _ := buildTestApp(t)

	for _, n := range []string{"A", "B", "C"} {
		resp := doJSON(t, app, http.MethodPost, "/api/invoices", validForm(n))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/invoices", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []entity.Invoice
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].InvoiceNumber)
	assert.Equal(t, "B", list[1].InvoiceNumber)
	assert.Equal(t, "C", list[2].InvoiceNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición y guards de sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenEdit_SinSeleccionRedirige(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/session/edit", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "editar sin selección redirige al listado")
	assert.Equal(t, "/api/invoices", resp.Header.Get(fiber.HeaderLocation))
}

func TestPreview_SinSeleccionRedirige(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/invoices/cualquiera", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/api/invoices", resp.Header.Get(fiber.HeaderLocation))
}

func sessionState(t *testing.T, app *fiber.App) invoicing.State {
	t.Helper()
	resp := doJSON(t, app, http.MethodGet, "/api/session", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state invoicing.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	return state
}

// La vista previa de un ID distinto a la selección responde 404 y deja la
// fase de la sesión exactamente como estaba.
func TestPreview_IDNoCoincideNoCambiaFase(t *testing.T) {
	app, _ := buildTestApp(t)
	created := decodeInvoice(t, doJSON(t, app, http.MethodPost, "/api/invoices", validForm("INV-1")))

	resp := doJSON(t, app, http.MethodPut, "/api/session/current", dto.SelectInvoiceRequest{ID: created.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	before := sessionState(t, app)

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/otra-factura", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, before, sessionState(t, app), "un 404 de vista previa no transiciona la sesión")
}

// Volver al listado devuelve la sesión a la fase inicial.
func TestList_DevuelveSesionAlListado(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", validForm("INV-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	require.Equal(t, invoicing.PhasePreviewing, sessionState(t, app).Phase, "un alta navega a la vista previa")

	resp = doJSON(t, app, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	state := sessionState(t, app)
	assert.Equal(t, invoicing.PhaseListing, state.Phase)
	assert.Empty(t, state.InvoiceID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrador de sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionDraft_SinFormulario404(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/session/draft", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionDraft_DevuelveFormularioAbierto(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/session/create", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	draft := decodeInvoice(t, doJSON(t, app, http.MethodGet, "/api/session/draft", nil))
	assert.Empty(t, draft.ID, "el borrador de alta no tiene ID todavía")
	assert.Empty(t, draft.Items)

	// Volver al listado descarta el borrador.
	resp = doJSON(t, app, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/session/draft", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditFlow_SeleccionSiembraYActualiza(t *testing.T) {
	app, store := buildTestApp(t)

	created := decodeInvoice(t, doJSON(t, app, http.MethodPost, "/api/invoices", validForm("INV-1")))

	// Seleccionar y abrir edición: el borrador es copia de la selección.
	resp := doJSON(t, app, http.MethodPut, "/api/session/current", dto.SelectInvoiceRequest{ID: created.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	draft := decodeInvoice(t, doJSON(t, app, http.MethodPost, "/api/session/edit", nil))
	assert.Equal(t, created.ID, draft.ID)
	assert.Equal(t, created.InvoiceNumber, draft.InvoiceNumber)

	// Enviar la edición: mismo ID, registro reemplazado.
	in := validForm("INV-1-editada")
	updated := decodeInvoice(t, doJSON(t, app, http.MethodPut, "/api/invoices/"+created.ID, in))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "INV-1-editada", updated.InvoiceNumber)
	require.Len(t, store.List(), 1, "la edición reemplaza, no agrega")
}

func TestUpdateInvoice_IDInexistente(t *testing.T) {
	app, store := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPut, "/api/invoices/fantasma", validForm("INV-9"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, store.List(), "update sobre ID ausente no muta la colección")
}

func TestDeleteInvoice_Idempotente(t *testing.T) {
	app, store := buildTestApp(t)
	created := decodeInvoice(t, doJSON(t, app, http.MethodPost, "/api/invoices", validForm("INV-1")))

	resp := doJSON(t, app, http.MethodDelete, "/api/invoices/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Segunda vez: no-op, misma respuesta.
	resp = doJSON(t, app, http.MethodDelete, "/api/invoices/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, store.List())
}

func TestSelect_IDInexistente(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPut, "/api/session/current", dto.SelectInvoiceRequest{ID: "fantasma"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadPDF_NombreDeArchivo(t *testing.T) {
	app, _ := buildTestApp(t)
	created := decodeInvoice(t, doJSON(t, app, http.MethodPost, "/api/invoices", validForm("INV-7")))

	resp := doJSON(t, app, http.MethodGet, "/api/invoices/"+created.ID+"/pdf", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `invoice-INV-7.pdf`,
		"el nombre del archivo se deriva del número de factura")
}

func TestDownloadPDF_FacturaInexistente(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/invoices/fantasma/pdf", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Logo
// ──────────────────────────────────────────────────────────────────────────────

// pngBytes: firma PNG mínima suficiente para la detección por contenido.
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0}, 16)...)

func uploadLogo(t *testing.T, app *fiber.App, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("logo", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assets/logo", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadLogo_PNGValido(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := uploadLogo(t, app, "logo.png", pngBytes)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LogoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Logo, "data:image/png;base64,", "el logo se devuelve como data URI")
}

func TestUploadLogo_NoImagenRechazado(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := uploadLogo(t, app, "nota.txt", []byte("esto no es una imagen"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Una imagen real pero de tipo no embebible en el PDF (GIF) también se
// rechaza en la subida en vez de fallar recién al exportar.
func TestUploadLogo_ImagenNoSoportadaRechazada(t *testing.T) {
	app, _ := buildTestApp(t)

	gifBytes := append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 16)...)
	resp := uploadLogo(t, app, "logo.gif", gifBytes)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
