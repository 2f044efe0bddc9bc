package invoicing

import (
	"time"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// ActionType identifica una operación sobre el store.
type ActionType string

const (
	ActionAddInvoice    ActionType = "ADD_INVOICE"
	ActionUpdateInvoice ActionType = "UPDATE_INVOICE"
	ActionDeleteInvoice ActionType = "DELETE_INVOICE"
	ActionSetCurrent    ActionType = "SET_CURRENT_INVOICE"
	ActionClearCurrent  ActionType = "CLEAR_CURRENT_INVOICE"
)

// Action es una petición de mutación sobre el store. Invoice aplica a
// ADD/UPDATE/SET_CURRENT; ID aplica a DELETE.
type Action struct {
	Type    ActionType
	Invoice *entity.Invoice
	ID      string
}

// Dispatch aplica una acción sobre el store. Una acción de tipo
// desconocido se rechaza registrando un warning y dejando el estado sin
// cambios (rama por defecto defensiva).
func (s *Store) Dispatch(a Action) {
	switch a.Type {
	case ActionAddInvoice:
		if a.Invoice == nil {
			s.log.Warn().Str("action", string(a.Type)).Msg("acción sin payload, estado sin cambios")
			return
		}
		s.Create(a.Invoice, time.Now())
	case ActionUpdateInvoice:
		if a.Invoice == nil {
			s.log.Warn().Str("action", string(a.Type)).Msg("acción sin payload, estado sin cambios")
			return
		}
		// El error de no-encontrado ya queda registrado por Update.
		_ = s.Update(a.Invoice)
	case ActionDeleteInvoice:
		s.Delete(a.ID)
	case ActionSetCurrent:
		s.SetCurrent(a.Invoice)
	case ActionClearCurrent:
		s.ClearCurrent()
	default:
		s.log.Warn().Str("action", string(a.Type)).Msg("acción desconocida, estado sin cambios")
	}
}
