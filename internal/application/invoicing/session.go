package invoicing

import (
	"sync"
	"time"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/pkg/logger"
)

// Phase es el estado de navegación de la sesión de edición.
type Phase string

const (
	PhaseListing    Phase = "listing"    // viendo el listado
	PhaseCreating   Phase = "creating"   // formulario de alta
	PhaseEditing    Phase = "editing"    // formulario sobre un registro existente
	PhasePreviewing Phase = "previewing" // vista previa / exportación
)

// State es una foto del estado de la sesión. InvoiceID solo tiene valor
// en las fases Editing y Previewing.
type State struct {
	Phase     Phase  `json:"phase"`
	InvoiceID string `json:"invoiceId,omitempty"`
}

// Session es la máquina de estados explícita que reemplaza a los guards
// de ruta sobre la selección nula: las fases Editing y Previewing exigen
// una selección actual en el store y, si no la hay, la transición falla
// con domain.ErrNoSelection para que la capa HTTP redirija al listado.
//
// Asume una sola pestaña / un solo editor (spec de origen): el lock solo
// protege contra el acceso concurrente propio del servidor HTTP.
type Session struct {
	mu    sync.Mutex
	store *Store
	state State
	draft *Draft
	log   *logger.Logger
}

// NewSession arranca la sesión en el listado.
func NewSession(store *Store, log *logger.Logger) *Session {
	return &Session{store: store, state: State{Phase: PhaseListing}, log: log}
}

// State devuelve la foto actual de la sesión.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ToList vuelve al listado descartando borrador y selección.
func (s *Session) ToList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	s.store.ClearCurrent()
	s.state = State{Phase: PhaseListing}
}

// ToCreate entra al formulario de alta con un borrador por defecto
// (fecha del día, sin filas). Cualquier selección previa se descarta.
func (s *Session) ToCreate(now time.Time) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearCurrent()
	s.draft = NewDraft(now)
	s.state = State{Phase: PhaseCreating}
	return s.draft
}

// ToEdit entra al formulario de edición sembrando el borrador como copia
// completa de la selección actual. Sin selección devuelve
// domain.ErrNoSelection (la ruta original redirigía al dashboard).
func (s *Session) ToEdit() (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.store.Current()
	if current == nil {
		return nil, domain.ErrNoSelection
	}
	s.draft = DraftFrom(current)
	s.state = State{Phase: PhaseEditing, InvoiceID: current.ID}
	return s.draft, nil
}

// ToPreview entra a la vista previa de la selección actual, verificando
// que el ID pedido coincida con ella. Sin selección devuelve
// domain.ErrNoSelection; con un ID que no coincide devuelve
// domain.ErrNotFound. En ambos casos la fase queda intacta: solo una
// verificación exitosa transiciona.
func (s *Session) ToPreview(id string) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.store.Current()
	if current == nil {
		return nil, domain.ErrNoSelection
	}
	if current.ID != id {
		return nil, domain.ErrNotFound
	}
	s.state = State{Phase: PhasePreviewing, InvoiceID: current.ID}
	return current, nil
}

// Select resuelve el ID contra el store y lo deja como selección actual,
// para sembrar una edición o llevar un registro a la vista previa.
func (s *Session) Select(id string) (*entity.Invoice, error) {
	return s.store.SetCurrentByID(id)
}

// Deselect limpia la selección actual.
func (s *Session) Deselect() {
	s.store.ClearCurrent()
}

// Submit valida y envía un borrador al store.
//
//   - Modo edición: congela totales, estampa lastUpdated, reemplaza el
//     registro por ID, limpia la selección y pasa al listado.
//   - Modo alta: congela totales, crea el registro (el store asigna ID y
//     createdAt), limpia la selección y pasa a la vista previa del ID nuevo.
//
// Si la validación falla no se muta el store y la sesión queda donde
// estaba, con el borrador intacto para corregir.
func (s *Session) Submit(d *Draft, now time.Time) (*entity.Invoice, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	final := d.finalize(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	if d.Editing() {
		if err := s.store.Update(final); err != nil {
			return nil, err
		}
		s.store.ClearCurrent()
		s.draft = nil
		s.state = State{Phase: PhaseListing}
		return final, nil
	}

	created := s.store.Create(final, now)
	s.store.ClearCurrent()
	s.draft = nil
	s.state = State{Phase: PhasePreviewing, InvoiceID: created.ID}
	return created, nil
}

// Reset descarta el borrador de vuelta a los valores por defecto y limpia
// la selección, sea válido o no lo que hubiera escrito.
func (s *Session) Reset(now time.Time) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearCurrent()
	s.draft = NewDraft(now)
	s.state = State{Phase: PhaseCreating}
	s.log.Info().Msg("formulario de factura reiniciado")
	return s.draft
}

// Draft devuelve el borrador activo, o nil si no hay formulario abierto.
func (s *Session) Draft() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}
