package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository  = (*WarehouseRepo)(nil)
	_ repository.ItemRepository       = (*ItemRepo)(nil)
	_ repository.DepartmentRepository = (*DepartmentRepo)(nil)
)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Save inserta o actualiza una bodega por ID (carga de catálogo desde stockctl).
func (r *WarehouseRepo) Save(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, code, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name`
	if _, err := r.q.Exec(ctx, query, w.ID, w.Code, w.Name); err != nil {
		return fmt.Errorf("save warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.first(ctx, `SELECT id, code, name FROM warehouses WHERE id = $1`, id)
}

func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	return r.first(ctx, `SELECT id, code, name FROM warehouses WHERE code = $1`, code)
}

func (r *WarehouseRepo) first(ctx context.Context, query, arg string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := r.q.QueryRow(ctx, query, arg).Scan(&w.ID, &w.Code, &w.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

func (r *WarehouseRepo) List(ctx context.Context) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `SELECT id, code, name FROM warehouses ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.Name); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// ItemRepo catálogo de ítems sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Save inserta o actualiza un ítem del catálogo.
func (r *ItemRepo) Save(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, name, category) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category`
	if _, err := r.q.Exec(ctx, query, it.ID, it.Name, it.Category); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := r.q.QueryRow(ctx, `SELECT id, name, category FROM inventory_items WHERE id = $1`, id).
		Scan(&it.ID, &it.Name, &it.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// DepartmentRepo mapeos departamento → bodega.
type DepartmentRepo struct {
	q Querier
}

func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

func (r *DepartmentRepo) FindWarehouseID(ctx context.Context, department string) (string, bool, error) {
	var id string
	err := r.q.QueryRow(ctx, `SELECT warehouse_id FROM department_mappings WHERE department = $1`, department).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find department mapping: %w", err)
	}
	return id, true, nil
}

func (r *DepartmentRepo) Upsert(ctx context.Context, m *entity.DepartmentMapping) error {
	query := `
		INSERT INTO department_mappings (department, warehouse_id, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (department) DO UPDATE SET warehouse_id = EXCLUDED.warehouse_id, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, m.Department, m.WarehouseID); err != nil {
		return fmt.Errorf("upsert department mapping: %w", err)
	}
	return nil
}

// Delete es idempotente: borrar un departamento sin mapeo no falla.
func (r *DepartmentRepo) Delete(ctx context.Context, department string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM department_mappings WHERE department = $1`, department); err != nil {
		return fmt.Errorf("delete department mapping: %w", err)
	}
	return nil
}

func (r *DepartmentRepo) List(ctx context.Context) ([]*entity.DepartmentMapping, error) {
	rows, err := r.q.Query(ctx, `SELECT department, warehouse_id FROM department_mappings ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("list department mappings: %w", err)
	}
	defer rows.Close()
	var list []*entity.DepartmentMapping
	for rows.Next() {
		var m entity.DepartmentMapping
		if err := rows.Scan(&m.Department, &m.WarehouseID); err != nil {
			return nil, fmt.Errorf("scan department mapping: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
