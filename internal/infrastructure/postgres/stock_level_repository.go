package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

const levelColumns = `warehouse_id, item_id, quantity, min_stock, max_stock, updated_at`

// StockLevelRepo ledger de cantidades sobre PostgreSQL (usable con pool o tx).
// Cada mutación es una única sentencia, así la verificación y la escritura no se separan.
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

func scanLevel(row pgx.Row) (*entity.StockLevel, error) {
	var (
		l        entity.StockLevel
		minStock decimal.NullDecimal
		maxStock decimal.NullDecimal
	)
	if err := row.Scan(&l.WarehouseID, &l.ItemID, &l.Quantity, &minStock, &maxStock, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if minStock.Valid {
		v := minStock.Decimal
		l.MinStock = &v
	}
	if maxStock.Valid {
		v := maxStock.Decimal
		l.MaxStock = &v
	}
	return &l, nil
}

// Get devuelve nil, nil si el par no existe.
func (r *StockLevelRepo) Get(ctx context.Context, warehouseID, itemID string) (*entity.StockLevel, error) {
	query := `SELECT ` + levelColumns + ` FROM stock_levels WHERE warehouse_id = $1 AND item_id = $2`
	l, err := scanLevel(r.q.QueryRow(ctx, query, warehouseID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return l, nil
}

func (r *StockLevelRepo) Ensure(ctx context.Context, warehouseID, itemID string) (*entity.StockLevel, error) {
	query := `
		INSERT INTO stock_levels (warehouse_id, item_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (warehouse_id, item_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, warehouseID, itemID); err != nil {
		return nil, fmt.Errorf("ensure stock level: %w", err)
	}
	return r.Get(ctx, warehouseID, itemID)
}

// upsertAdd suma delta creando la fila si no existe.
func (r *StockLevelRepo) upsertAdd(ctx context.Context, warehouseID, itemID string, delta decimal.Decimal) (*entity.StockLevel, error) {
	query := `
		INSERT INTO stock_levels (warehouse_id, item_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (warehouse_id, item_id)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING ` + levelColumns
	return scanLevel(r.q.QueryRow(ctx, query, warehouseID, itemID, delta))
}

func (r *StockLevelRepo) AdjustUnchecked(ctx context.Context, warehouseID, itemID string, delta decimal.Decimal) (*entity.StockLevel, error) {
	l, err := r.upsertAdd(ctx, warehouseID, itemID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust stock level: %w", err)
	}
	return l, nil
}

func (r *StockLevelRepo) Increment(ctx context.Context, warehouseID, itemID string, amount decimal.Decimal) (*entity.StockLevel, error) {
	l, err := r.upsertAdd(ctx, warehouseID, itemID, amount)
	if err != nil {
		return nil, fmt.Errorf("increment stock level: %w", err)
	}
	return l, nil
}

// DecrementChecked resta solo si quantity >= amount. Sin fila afectada se lee la cantidad
// actual para construir el error; la fila no se modifica.
func (r *StockLevelRepo) DecrementChecked(ctx context.Context, warehouseID, itemID string, amount decimal.Decimal) (*entity.StockLevel, error) {
	query := `
		UPDATE stock_levels
		SET quantity = quantity - $3, updated_at = now()
		WHERE warehouse_id = $1 AND item_id = $2 AND quantity >= $3
		RETURNING ` + levelColumns
	l, err := scanLevel(r.q.QueryRow(ctx, query, warehouseID, itemID, amount))
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrement stock level: %w", err)
	}
	current, err := r.Get(ctx, warehouseID, itemID)
	if err != nil {
		return nil, err
	}
	available := decimal.Zero
	if current != nil {
		available = current.Quantity
	}
	return nil, &domain.InsufficientStockError{
		WarehouseID: warehouseID,
		ItemID:      itemID,
		Available:   available,
		Requested:   amount,
	}
}

func (r *StockLevelRepo) SetLimits(ctx context.Context, warehouseID, itemID string, minStock, maxStock *decimal.Decimal) (*entity.StockLevel, error) {
	query := `
		UPDATE stock_levels SET min_stock = $3, max_stock = $4, updated_at = now()
		WHERE warehouse_id = $1 AND item_id = $2
		RETURNING ` + levelColumns
	l, err := scanLevel(r.q.QueryRow(ctx, query, warehouseID, itemID, minStock, maxStock))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "stock_level", ID: warehouseID + "/" + itemID}
		}
		return nil, fmt.Errorf("set stock limits: %w", err)
	}
	return l, nil
}

func (r *StockLevelRepo) List(ctx context.Context, f repository.StockLevelFilter) ([]*entity.StockLevel, int, error) {
	p := f.Page.Normalize()
	base := dialect.From("stock_levels")
	if f.WarehouseID != "" {
		base = base.Where(goqu.C("warehouse_id").Eq(f.WarehouseID))
	}
	if f.ItemID != "" {
		base = base.Where(goqu.C("item_id").Eq(f.ItemID))
	}
	if f.LowOnly {
		base = base.Where(goqu.C("min_stock").IsNotNull(), goqu.L("quantity <= min_stock"))
	}
	pageDS := base.
		Select("warehouse_id", "item_id", "quantity", "min_stock", "max_stock", "updated_at").
		Order(goqu.C("warehouse_id").Asc(), goqu.C("item_id").Asc()).
		Limit(uint(p.Limit)).
		Offset(uint(p.Offset))

	rows, total, err := countAndList(ctx, r.q, base, pageDS)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

// Discrepancies compara cada fila con la suma de su log; incluye pares con log y sin fila.
func (r *StockLevelRepo) Discrepancies(ctx context.Context) ([]repository.Discrepancy, error) {
	query := `
		SELECT
			COALESCE(l.warehouse_id, t.warehouse_id),
			COALESCE(l.item_id, t.item_id),
			COALESCE(l.quantity, 0),
			COALESCE(t.total, 0)
		FROM stock_levels l
		FULL OUTER JOIN (
			SELECT warehouse_id, item_id, SUM(delta) AS total
			FROM stock_transactions
			GROUP BY warehouse_id, item_id
		) t ON t.warehouse_id = l.warehouse_id AND t.item_id = l.item_id
		WHERE COALESCE(l.quantity, 0) <> COALESCE(t.total, 0)
		ORDER BY 1, 2`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reconcile stock: %w", err)
	}
	defer rows.Close()
	var out []repository.Discrepancy
	for rows.Next() {
		var d repository.Discrepancy
		if err := rows.Scan(&d.WarehouseID, &d.ItemID, &d.Quantity, &d.LedgerSum); err != nil {
			return nil, fmt.Errorf("scan discrepancy: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
