package inventory

import (
	"context"

	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

// Catalog verifica la existencia de bodegas e ítems antes de tocar el ledger.
type Catalog struct {
	warehouses repository.WarehouseRepository
	items      repository.ItemRepository
}

// NewCatalog construye el verificador.
func NewCatalog(warehouses repository.WarehouseRepository, items repository.ItemRepository) *Catalog {
	return &Catalog{warehouses: warehouses, items: items}
}

// RequireWarehouse devuelve la bodega o NotFoundError.
func (c *Catalog) RequireWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	if id == "" {
		return nil, domain.Invalid("warehouse_id", "requerido")
	}
	w, err := c.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, &domain.NotFoundError{Entity: "warehouse", ID: id}
	}
	return w, nil
}

// RequireItem devuelve el ítem o NotFoundError.
func (c *Catalog) RequireItem(ctx context.Context, id string) (*entity.InventoryItem, error) {
	if id == "" {
		return nil, domain.Invalid("item_id", "requerido")
	}
	it, err := c.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, &domain.NotFoundError{Entity: "item", ID: id}
	}
	return it, nil
}
