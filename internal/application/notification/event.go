// Package notification es la frontera de salida hacia los canales de notificación.
// El núcleo publica eventos sin bloquear y nunca observa fallos de entrega.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Kind tipo de evento de notificación.
type Kind string

const (
	KindRequestCreated       Kind = "requestCreated"
	KindRequestStatusChanged Kind = "requestStatusChanged"
	KindTransferDecided      Kind = "transferDecided"
	KindLowStock             Kind = "lowStock"
)

// AdminRecipient destinatario del canal de administradores.
const AdminRecipient = "admin"

// Event mensaje publicado hacia los colaboradores externos.
type Event struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Recipient  string         `json:"recipient"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewEvent construye un evento con ID y marca de tiempo.
func NewEvent(kind Kind, recipient string, payload map[string]any) Event {
	return Event{
		ID:         uuid.New().String(),
		Kind:       kind,
		Recipient:  recipient,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}
