// Package approval contiene las máquinas de estado de solicitudes y traslados.
// Toda transición pasa por NextRequestStatus o NextTransferStatus.
package approval

import (
	"errors"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// Event evento que dispara una transición.
type Event string

const (
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventComplete Event = "complete"
)

// ErrIllegalTransition el evento no aplica al estado actual.
var ErrIllegalTransition = errors.New("transición de estado no permitida")

// ErrUnknownDecision la decisión no es approved ni rejected.
var ErrUnknownDecision = errors.New("decisión desconocida")

// DecisionEvent traduce la decisión recibida ("approved" | "rejected") a un evento.
func DecisionEvent(decision string) (Event, error) {
	switch decision {
	case "approved":
		return EventApprove, nil
	case "rejected":
		return EventReject, nil
	}
	return "", ErrUnknownDecision
}

type requestEdge struct {
	from entity.RequestStatus
	ev   Event
}

var requestTable = map[requestEdge]entity.RequestStatus{
	{entity.RequestPending, EventApprove}: entity.RequestApproved,
	{entity.RequestPending, EventReject}:  entity.RequestRejected,
}

// NextRequestStatus devuelve el estado resultante o ErrIllegalTransition.
func NextRequestStatus(current entity.RequestStatus, ev Event) (entity.RequestStatus, error) {
	next, ok := requestTable[requestEdge{current, ev}]
	if !ok {
		return current, ErrIllegalTransition
	}
	return next, nil
}

type transferEdge struct {
	from entity.TransferStatus
	ev   Event
}

var transferTable = map[transferEdge]entity.TransferStatus{
	{entity.TransferPending, EventApprove}:   entity.TransferApproved,
	{entity.TransferApproved, EventComplete}: entity.TransferCompleted,
	{entity.TransferPending, EventReject}:    entity.TransferRejected,
}

// NextTransferStatus devuelve el estado resultante o ErrIllegalTransition.
// approved es un estado intermedio: la aprobación se completa en la misma unidad atómica.
func NextTransferStatus(current entity.TransferStatus, ev Event) (entity.TransferStatus, error) {
	next, ok := transferTable[transferEdge{current, ev}]
	if !ok {
		return current, ErrIllegalTransition
	}
	return next, nil
}
