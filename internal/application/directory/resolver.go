package directory

import (
	"context"

	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// DepartmentLookup fuente del mapeo departamento → bodega.
type DepartmentLookup interface {
	FindWarehouseID(ctx context.Context, department string) (warehouseID string, found bool, err error)
}

// WarehouseReader lectura de bodegas por ID y por código.
type WarehouseReader interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
}

// Resolver resuelve la bodega de un departamento con una política de respaldo explícita:
// primero el mapeo, luego la bodega con DefaultCode, si no NoWarehouseResolvedError.
type Resolver struct {
	lookup      DepartmentLookup
	warehouses  WarehouseReader
	defaultCode string
}

// NewResolver construye el resolver. defaultCode vacío desactiva el respaldo.
func NewResolver(lookup DepartmentLookup, warehouses WarehouseReader, defaultCode string) *Resolver {
	return &Resolver{lookup: lookup, warehouses: warehouses, defaultCode: defaultCode}
}

// Resolve devuelve la bodega del departamento.
func (r *Resolver) Resolve(ctx context.Context, department string) (*entity.Warehouse, error) {
	if department != "" {
		id, found, err := r.lookup.FindWarehouseID(ctx, department)
		if err != nil {
			return nil, err
		}
		if found {
			w, err := r.warehouses.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if w != nil {
				return w, nil
			}
		}
	}
	if r.defaultCode != "" {
		w, err := r.warehouses.GetByCode(ctx, r.defaultCode)
		if err != nil {
			return nil, err
		}
		if w != nil {
			return w, nil
		}
	}
	return nil, &domain.NoWarehouseResolvedError{Department: department}
}
