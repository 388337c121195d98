package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel cantidad actual de un ítem en una bodega, con umbrales opcionales.
// Una fila por par (bodega, ítem); se crea de forma perezosa en la primera entrada.
type StockLevel struct {
	WarehouseID string
	ItemID      string
	Quantity    decimal.Decimal
	MinStock    *decimal.Decimal
	MaxStock    *decimal.Decimal
	UpdatedAt   time.Time
}

// IsLow indica si la cantidad está en o por debajo del mínimo configurado.
func (s *StockLevel) IsLow() bool {
	return s.MinStock != nil && s.Quantity.LessThanOrEqual(*s.MinStock)
}

// ExceedsMax indica si la cantidad supera el máximo configurado (advertencia no bloqueante).
func (s *StockLevel) ExceedsMax() bool {
	return s.MaxStock != nil && s.Quantity.GreaterThan(*s.MaxStock)
}

// Clone copia la fila, incluidos los umbrales.
func (s *StockLevel) Clone() *StockLevel {
	c := *s
	if s.MinStock != nil {
		v := *s.MinStock
		c.MinStock = &v
	}
	if s.MaxStock != nil {
		v := *s.MaxStock
		c.MaxStock = &v
	}
	return &c
}
