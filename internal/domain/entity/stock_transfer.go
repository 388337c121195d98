package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado de un traslado: pending → approved → completed, o pending → rejected.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferApproved  TransferStatus = "approved"
	TransferCompleted TransferStatus = "completed"
	TransferRejected  TransferStatus = "rejected"
)

func (s TransferStatus) String() string { return string(s) }

// StockTransfer traslado propuesto de un ítem entre dos bodegas, sujeto a aprobación.
type StockTransfer struct {
	ID              string
	FromWarehouseID string
	ToWarehouseID   string
	ItemID          string
	Quantity        decimal.Decimal
	Status          TransferStatus
	Note            string
	RequestedBy     string
	ApprovedBy      string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}
