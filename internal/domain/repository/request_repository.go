package repository

import (
	"context"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// RequestFilter filtros del listado de solicitudes.
type RequestFilter struct {
	UserID      string
	WarehouseID string
	Status      entity.RequestStatus
	Page        Page
}

// RequestRepository persistencia de solicitudes y sus líneas.
type RequestRepository interface {
	// Create persiste la solicitud junto con sus Items.
	Create(ctx context.Context, r *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	// GetForUpdate bloquea la solicitud hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Request, error)
	UpdateStatus(ctx context.Context, r *entity.Request) error
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, int, error)
}
