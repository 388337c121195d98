package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposeTransferRequest body para POST /api/stock-transfers.
type ProposeTransferRequest struct {
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	ItemID          string          `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Note            string          `json:"note,omitempty"`
}

// DecideTransferRequest body para PATCH /api/stock-transfers/:id.
type DecideTransferRequest struct {
	Status string `json:"status"` // approved | rejected
}

// TransferResponse traslado entre bodegas.
type TransferResponse struct {
	ID              string          `json:"id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	ItemID          string          `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status"`
	Note            string          `json:"note,omitempty"`
	RequestedBy     string          `json:"requested_by"`
	ApprovedBy      string          `json:"approved_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`

	// Solo en la respuesta de la propuesta: disponibilidad observada en el origen.
	SourceAvailable *decimal.Decimal `json:"source_available,omitempty"`
	SufficientStock *bool            `json:"sufficient_stock,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
