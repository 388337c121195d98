package repository

import (
	"context"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// WarehouseRepository lectura de bodegas (la administración es externa).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	List(ctx context.Context) ([]*entity.Warehouse, error)
}

// ItemRepository lectura del catálogo de ítems.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
}

// DepartmentRepository mapeos departamento → bodega.
type DepartmentRepository interface {
	// FindWarehouseID devuelve found=false si el departamento no tiene mapeo.
	FindWarehouseID(ctx context.Context, department string) (warehouseID string, found bool, err error)
	Upsert(ctx context.Context, m *entity.DepartmentMapping) error
	Delete(ctx context.Context, department string) error
	List(ctx context.Context) ([]*entity.DepartmentMapping, error)
}
