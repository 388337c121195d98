package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNoWarehouse       = errors.New("no se pudo resolver la bodega")
)

// InsufficientStockError indica que la bodega no tiene cantidad suficiente del ítem.
// Garantiza que no hubo ninguna mutación.
type InsufficientStockError struct {
	WarehouseID string
	ItemID      string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en bodega %s para ítem %s: disponible %s, solicitado %s",
		e.WarehouseID, e.ItemID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundError recurso inexistente.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateTransitionError se produce al intentar procesar una entidad que ya salió de pending.
type InvalidStateTransitionError struct {
	Entity        string
	ID            string
	CurrentStatus string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s %s ya fue procesado (estado actual: %s)", e.Entity, e.ID, e.CurrentStatus)
}

func (e *InvalidStateTransitionError) Unwrap() error { return ErrConflict }

// NoWarehouseResolvedError no hay mapeo de departamento ni bodega por defecto.
type NoWarehouseResolvedError struct {
	Department string
}

func (e *NoWarehouseResolvedError) Error() string {
	return fmt.Sprintf("no hay bodega asignada al departamento %q ni bodega por defecto", e.Department)
}

func (e *NoWarehouseResolvedError) Unwrap() error { return ErrNoWarehouse }

// ValidationError entrada rechazada antes de tocar el ledger.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
