package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestKind tipo de solicitud de un usuario.
type RequestKind string

const (
	RequestWithdraw RequestKind = "withdraw"
	RequestBorrow   RequestKind = "borrow"
	RequestReturn   RequestKind = "return"
)

// Valid indica si el tipo es conocido.
func (k RequestKind) Valid() bool {
	return k == RequestWithdraw || k == RequestBorrow || k == RequestReturn
}

// RequestStatus estado de aprobación de una solicitud. approved y rejected son terminales.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) String() string { return string(s) }

// Terminal indica si el estado ya no admite transiciones.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// Request solicitud multi-línea de retiro, préstamo o devolución sobre una bodega.
type Request struct {
	ID          string
	UserID      string
	WarehouseID string
	Kind        RequestKind
	Status      RequestStatus
	Message     string // comentario del aprobador
	DecidedBy   string
	DecidedAt   *time.Time
	CreatedAt   time.Time
	Items       []RequestItem
}

// RequestItem línea de una solicitud; se crea atómicamente con la solicitud.
type RequestItem struct {
	RequestID string
	ItemID    string
	Quantity  decimal.Decimal
}
