package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLineRequest línea (ítem, cantidad) de una entrada o solicitud.
type StockLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReceiveInboundRequest body para POST /api/stock-transactions/receive.
type ReceiveInboundRequest struct {
	WarehouseID string             `json:"warehouse_id"`
	Items       []StockLineRequest `json:"items"`
	Note        string             `json:"note,omitempty"`
	ReferenceID string             `json:"reference_id,omitempty"`
}

// AdjustStockRequest body para PATCH /api/stock-levels/:warehouseId/:itemId/adjust.
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta"` // con signo
	Note  string          `json:"note,omitempty"`
}

// StockLimitsRequest body para PATCH /api/stock-levels/:warehouseId/:itemId/limits.
// Un valor nulo elimina el umbral.
type StockLimitsRequest struct {
	MinStock *decimal.Decimal `json:"min_stock"`
	MaxStock *decimal.Decimal `json:"max_stock"`
}

// StockLevelResponse nivel de stock de un par (bodega, ítem).
type StockLevelResponse struct {
	WarehouseID string           `json:"warehouse_id"`
	ItemID      string           `json:"item_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock"`
	LowStock    bool             `json:"low_stock"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// StockLevelListResponse listado de niveles.
type StockLevelListResponse struct {
	Items []StockLevelResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// StockTransactionResponse registro del log de movimientos.
type StockTransactionResponse struct {
	ID          string          `json:"id"`
	WarehouseID string          `json:"warehouse_id"`
	ItemID      string          `json:"item_id"`
	Delta       decimal.Decimal `json:"delta"`
	Kind        string          `json:"kind"`
	Note        string          `json:"note,omitempty"`
	ReferenceID string          `json:"reference_id,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockTransactionListResponse página del historial, del más reciente al más antiguo.
type StockTransactionListResponse struct {
	Items      []StockTransactionResponse `json:"items"`
	Page       PageResponse               `json:"page"`
	TotalPages int                        `json:"total_pages"`
}

// ReceiveInboundResponse resultado de una entrada multi-línea.
type ReceiveInboundResponse struct {
	Levels       []StockLevelResponse       `json:"levels"`
	Transactions []StockTransactionResponse `json:"transactions"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	Level       StockLevelResponse       `json:"level"`
	Transaction StockTransactionResponse `json:"transaction"`
}

// DiscrepancyResponse par cuya cantidad no coincide con su historial.
type DiscrepancyResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	ItemID      string          `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	LedgerSum   decimal.Decimal `json:"ledger_sum"`
}
