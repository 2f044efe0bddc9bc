// Package localstore implementa la persistencia durable local: una única
// entrada JSON (un archivo) con el array completo de facturas, el
// equivalente de la entrada de localStorage del builder original.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/facturador-api/internal/application/invoicing"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/pkg/logger"
)

// Store persiste la colección de facturas en un archivo JSON.
type Store struct {
	path string
	mu   sync.Mutex
	log  *logger.Logger
}

var _ invoicing.Persister = (*Store)(nil)

// New construye el store sobre la ruta dada.
func New(path string, log *logger.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load lee la colección completa. Una entrada ausente o no parseable se
// trata como colección vacía, nunca como error fatal: el builder debe
// arrancar igual aunque el archivo se haya corrompido.
func (s *Store) Load() ([]*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*entity.Invoice{}, nil
		}
		return []*entity.Invoice{}, fmt.Errorf("localstore: leer %s: %w", s.path, err)
	}

	var invoices []*entity.Invoice
	if err := json.Unmarshal(data, &invoices); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("entrada de facturas corrupta, se trata como vacía")
		return []*entity.Invoice{}, nil
	}
	if invoices == nil {
		invoices = []*entity.Invoice{}
	}
	return invoices, nil
}

// Save reemplaza la entrada completa con la colección dada. La escritura
// es atómica (archivo temporal + rename) para que un corte a mitad de
// escritura nunca deje la entrada a medias.
func (s *Store) Save(invoices []*entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(invoices, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: serializar facturas: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("localstore: crear directorio %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".invoices-*.json")
	if err != nil {
		return fmt.Errorf("localstore: archivo temporal: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("localstore: escribir %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: cerrar %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: renombrar a %s: %w", s.path, err)
	}
	return nil
}
