package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("factura no encontrada")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrNoSelection  = errors.New("no hay factura seleccionada")
	ErrInvalidLogo  = errors.New("el archivo no es una imagen válida")
)
