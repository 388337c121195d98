package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tipo de movimiento registrado en el log de transacciones.
type TransactionKind string

const (
	TransactionInbound     TransactionKind = "inbound"
	TransactionOutbound    TransactionKind = "outbound"
	TransactionAdjustment  TransactionKind = "adjustment"
	TransactionTransferOut TransactionKind = "transfer-out"
	TransactionTransferIn  TransactionKind = "transfer-in"
)

func (k TransactionKind) String() string { return string(k) }

// Valid indica si el tipo pertenece al conjunto conocido.
func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionInbound, TransactionOutbound, TransactionAdjustment,
		TransactionTransferOut, TransactionTransferIn:
		return true
	}
	return false
}

// StockTransaction registro inmutable de un delta de cantidad para un par (bodega, ítem).
type StockTransaction struct {
	ID          string
	WarehouseID string
	ItemID      string
	Delta       decimal.Decimal // con signo: negativo para salidas
	Kind        TransactionKind
	Note        string
	ReferenceID string // solicitud, traslado o documento externo
	UserID      string
	CreatedAt   time.Time
}
