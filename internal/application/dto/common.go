package dto

import "github.com/shopspring/decimal"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// InsufficientStockResponse cuerpo de error 409 con el detalle de disponibilidad.
type InsufficientStockResponse struct {
	ErrorResponse
	WarehouseID string          `json:"warehouse_id"`
	ItemID      string          `json:"item_id"`
	Available   decimal.Decimal `json:"available"`
	Requested   decimal.Decimal `json:"requested"`
}
