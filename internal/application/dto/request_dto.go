package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitRequestRequest body para POST /api/requests.
// WarehouseID es opcional: vacío = bodega del departamento del usuario.
type SubmitRequestRequest struct {
	Kind        string             `json:"kind"` // withdraw | borrow | return
	WarehouseID string             `json:"warehouse_id,omitempty"`
	Items       []StockLineRequest `json:"items"`
}

// UpdateRequestStatusRequest body para PATCH /api/requests/:id/status.
type UpdateRequestStatusRequest struct {
	Status  string `json:"status"` // approved | rejected
	Message string `json:"message,omitempty"`
}

// RequestItemResponse línea de una solicitud.
type RequestItemResponse struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RequestResponse solicitud con sus líneas.
type RequestResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	WarehouseID string                `json:"warehouse_id"`
	Kind        string                `json:"kind"`
	Status      string                `json:"status"`
	Message     string                `json:"message,omitempty"`
	DecidedBy   string                `json:"decided_by,omitempty"`
	DecidedAt   *time.Time            `json:"decided_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	Items       []RequestItemResponse `json:"items"`
}

// RequestListResponse lista paginada de solicitudes.
type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
