// Package invoicing contiene el núcleo de la aplicación: el store de
// facturas (colección en memoria espejada a almacenamiento durable), el
// borrador de edición y la sesión de navegación que los conecta.
package invoicing

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/pkg/logger"
)

// Persister espeja la colección completa de facturas a un almacenamiento
// durable. Load tolera entrada ausente o corrupta devolviendo colección
// vacía; Save reemplaza la entrada completa.
type Persister interface {
	Load() ([]*entity.Invoice, error)
	Save(invoices []*entity.Invoice) error
}

// Store es la única fuente de verdad de la colección de facturas y del
// puntero de selección actual. Cada mutación exitosa de la colección
// dispara una re-serialización completa hacia el Persister en segundo
// plano (fire-and-forget): un fallo de escritura se registra en el log y
// no revierte el estado en memoria.
//
// Las escrituras durables pasan por un único escritor en segundo plano
// que solo conserva el snapshot pendiente más reciente: una escritura
// lenta nunca puede pisar en disco un estado más nuevo.
//
// El puntero de selección (factura actual) es estado transitorio de
// navegación y no se persiste.
type Store struct {
	mu        sync.Mutex
	invoices  []*entity.Invoice
	current   *entity.Invoice
	pending   []*entity.Invoice
	writing   bool
	persister Persister
	log       *logger.Logger
	wg        sync.WaitGroup
}

// NewStore construye el store hidratando la colección desde el Persister.
// Un fallo de carga no es fatal: se registra y se arranca con colección
// vacía, igual que una entrada ausente.
func NewStore(p Persister, log *logger.Logger) *Store {
	invoices, err := p.Load()
	if err != nil {
		log.Warn().Err(err).Msg("carga del almacenamiento durable falló, se arranca con colección vacía")
		invoices = nil
	}
	return &Store{invoices: invoices, persister: p, log: log}
}

// Create asigna ID y CreatedAt al borrador, lo agrega al final de la
// colección y devuelve el registro persistido. Con input válido nunca
// falla: si la escritura durable falla igualmente se devuelve el objeto
// en memoria (el fallo solo se registra).
func (s *Store) Create(draft *entity.Invoice, now time.Time) *entity.Invoice {
	inv := draft.Clone()
	inv.ID = uuid.NewString()
	inv.CreatedAt = now

	s.mu.Lock()
	s.invoices = append(s.invoices, inv)
	s.persistLocked()
	s.mu.Unlock()

	s.log.Info().Str("invoice_id", inv.ID).Str("number", inv.InvoiceNumber).Msg("factura creada")
	return inv.Clone()
}

// Update reemplaza por completo el registro cuyo ID coincide, conservando
// su posición en la colección. Si el ID no existe la colección queda
// intacta y se devuelve domain.ErrNotFound: condición reportable pero no
// fatal.
func (s *Store) Update(inv *entity.Invoice) error {
	s.mu.Lock()
	for i, existing := range s.invoices {
		if existing.ID == inv.ID {
			s.invoices[i] = inv.Clone()
			s.persistLocked()
			s.mu.Unlock()
			s.log.Info().Str("invoice_id", inv.ID).Msg("factura actualizada")
			return nil
		}
	}
	s.mu.Unlock()

	s.log.Warn().Str("invoice_id", inv.ID).Msg("update sobre factura inexistente, colección sin cambios")
	return domain.ErrNotFound
}

// Delete elimina el registro con el ID dado. Borrar un ID inexistente es
// un no-op, no un error (idempotente).
func (s *Store) Delete(id string) {
	s.mu.Lock()
	for i, existing := range s.invoices {
		if existing.ID == id {
			s.invoices = append(s.invoices[:i], s.invoices[i+1:]...)
			if s.current != nil && s.current.ID == id {
				s.current = nil
			}
			s.persistLocked()
			s.mu.Unlock()
			s.log.Info().Str("invoice_id", id).Msg("factura eliminada")
			return
		}
	}
	s.mu.Unlock()
}

// List devuelve la colección en orden de inserción. Las facturas se
// copian para que el caller no pueda mutar el estado del store.
func (s *Store) List() []*entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Invoice, len(s.invoices))
	for i, inv := range s.invoices {
		out[i] = inv.Clone()
	}
	return out
}

// Get devuelve la factura con el ID dado o domain.ErrNotFound.
func (s *Store) Get(id string) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

// SetCurrent reemplaza la selección transitoria: la factura que se está
// por editar o previsualizar. Con nil equivale a ClearCurrent.
func (s *Store) SetCurrent(inv *entity.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv == nil {
		s.current = nil
		return
	}
	s.current = inv.Clone()
}

// SetCurrentByID resuelve el ID contra la colección y lo deja como
// selección actual.
func (s *Store) SetCurrentByID(id string) (*entity.Invoice, error) {
	inv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	s.SetCurrent(inv)
	return inv, nil
}

// Current devuelve la selección actual, o nil si no hay ninguna.
func (s *Store) Current() *entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// ClearCurrent descarta la selección actual.
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// persistLocked toma un snapshot de la colección (con el lock ya tomado),
// lo deja como pendiente y asegura que el escritor en segundo plano esté
// corriendo. Los snapshots intermedios se colapsan: cada mutación
// reemplaza el pendiente anterior, así el escritor siempre serializa el
// estado más reciente y nunca re-escribe uno viejo encima. El error de
// escritura solo se registra: el estado en memoria sigue siendo
// autoritativo para la sesión.
func (s *Store) persistLocked() {
	snapshot := make([]*entity.Invoice, len(s.invoices))
	for i, inv := range s.invoices {
		snapshot[i] = inv.Clone()
	}
	s.pending = snapshot
	if s.writing {
		return
	}
	s.writing = true
	s.wg.Add(1)
	go s.drainPending()
}

// drainPending escribe snapshots pendientes en serie hasta vaciar la
// cola. Corre a lo sumo una instancia a la vez (bandera writing), de modo
// que las escrituras al Persister quedan totalmente ordenadas.
func (s *Store) drainPending() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		snapshot := s.pending
		s.pending = nil
		if snapshot == nil {
			s.writing = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		if err := s.persister.Save(snapshot); err != nil {
			s.log.Error().Err(err).Int("invoices", len(snapshot)).Msg("persistencia de facturas falló")
		}
	}
}

// Flush espera a que terminen las escrituras durables pendientes. Se usa
// en el apagado del proceso y en tests; las mutaciones nunca la llaman.
func (s *Store) Flush() {
	s.wg.Wait()
}
