package memory

import (
	"context"
	"fmt"
	"sort"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository  = (*WarehouseRepo)(nil)
	_ repository.ItemRepository       = (*ItemRepo)(nil)
	_ repository.DepartmentRepository = (*DepartmentRepo)(nil)
)

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct {
	s session
}

// Save inserta o reemplaza una bodega (carga inicial y tests).
func (r *WarehouseRepo) Save(w *entity.Warehouse) error {
	c := *w
	return r.s.write(func(txn *memdb.Txn) error {
		if err := txn.Insert(tableWarehouses, &c); err != nil {
			return fmt.Errorf("save warehouse: %w", err)
		}
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.first("id", id)
}

func (r *WarehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	return r.first("code", code)
}

func (r *WarehouseRepo) first(index, value string) (*entity.Warehouse, error) {
	txn, done := r.s.read()
	defer done()
	raw, err := txn.First(tableWarehouses, index, value)
	if err != nil {
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	c := *raw.(*entity.Warehouse)
	return &c, nil
}

func (r *WarehouseRepo) List(_ context.Context) ([]*entity.Warehouse, error) {
	txn, done := r.s.read()
	defer done()
	it, err := txn.Get(tableWarehouses, "id")
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	var list []*entity.Warehouse
	for raw := it.Next(); raw != nil; raw = it.Next() {
		c := *raw.(*entity.Warehouse)
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

// ItemRepo catálogo de ítems en memoria.
type ItemRepo struct {
	s session
}

// Save inserta o reemplaza un ítem (carga inicial y tests).
func (r *ItemRepo) Save(it *entity.InventoryItem) error {
	c := *it
	return r.s.write(func(txn *memdb.Txn) error {
		if err := txn.Insert(tableItems, &c); err != nil {
			return fmt.Errorf("save item: %w", err)
		}
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	txn, done := r.s.read()
	defer done()
	raw, err := txn.First(tableItems, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	c := *raw.(*entity.InventoryItem)
	return &c, nil
}

// DepartmentRepo mapeos departamento → bodega en memoria.
type DepartmentRepo struct {
	s session
}

func (r *DepartmentRepo) FindWarehouseID(_ context.Context, department string) (string, bool, error) {
	txn, done := r.s.read()
	defer done()
	raw, err := txn.First(tableDepartments, "id", department)
	if err != nil {
		return "", false, fmt.Errorf("find department mapping: %w", err)
	}
	if raw == nil {
		return "", false, nil
	}
	return raw.(*entity.DepartmentMapping).WarehouseID, true, nil
}

func (r *DepartmentRepo) Upsert(_ context.Context, m *entity.DepartmentMapping) error {
	c := *m
	return r.s.write(func(txn *memdb.Txn) error {
		if err := txn.Insert(tableDepartments, &c); err != nil {
			return fmt.Errorf("upsert department mapping: %w", err)
		}
		return nil
	})
}

func (r *DepartmentRepo) Delete(_ context.Context, department string) error {
	return r.s.write(func(txn *memdb.Txn) error {
		if _, err := txn.DeleteAll(tableDepartments, "id", department); err != nil {
			return fmt.Errorf("delete department mapping: %w", err)
		}
		return nil
	})
}

func (r *DepartmentRepo) List(_ context.Context) ([]*entity.DepartmentMapping, error) {
	txn, done := r.s.read()
	defer done()
	it, err := txn.Get(tableDepartments, "id")
	if err != nil {
		return nil, fmt.Errorf("list department mappings: %w", err)
	}
	var list []*entity.DepartmentMapping
	for raw := it.Next(); raw != nil; raw = it.Next() {
		c := *raw.(*entity.DepartmentMapping)
		list = append(list, &c)
	}
	return list, nil
}
