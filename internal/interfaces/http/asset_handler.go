package http

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/pkg/logger"
)

// AssetHandler convierte archivos subidos en representaciones embebibles.
type AssetHandler struct {
	log *logger.Logger
}

// NewAssetHandler construye el handler.
func NewAssetHandler(log *logger.Logger) *AssetHandler {
	return &AssetHandler{log: log}
}

// UploadLogo recibe una sola imagen (multipart, campo "logo") y la
// devuelve como data URI lista para adjuntar al borrador. El tipo se
// detecta del contenido, no de la extensión; un archivo que no sea
// imagen se rechaza y no toca ningún borrador en curso.
// POST /api/assets/logo
func (h *AssetHandler) UploadLogo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera un archivo en el campo logo"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("apertura del logo falló")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "ASSET_ERROR", Message: "Error uploading logo"})
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("lectura del logo falló")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "ASSET_ERROR", Message: "Error uploading logo"})
	}

	mime, err := sniffLogo(raw)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("logo rechazado")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ASSET_ERROR", Message: "Error uploading logo"})
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw))
	return c.JSON(dto.LogoResponse{Logo: dataURI})
}

// sniffLogo detecta el tipo por contenido y devuelve el MIME aceptado, o
// domain.ErrInvalidLogo si el archivo no sirve como logo.
func sniffLogo(raw []byte) (string, error) {
	kind, err := filetype.Match(raw)
	if err != nil || !filetype.IsImage(raw) {
		return "", fmt.Errorf("%w: el contenido no es una imagen", domain.ErrInvalidLogo)
	}
	// El PDF solo embebe PNG/JPEG; el resto se rechaza acá y no al exportar.
	if kind != matchers.TypePng && kind != matchers.TypeJpeg {
		return "", fmt.Errorf("%w: tipo %s no soportado", domain.ErrInvalidLogo, kind.MIME.Value)
	}
	return kind.MIME.Value, nil
}
