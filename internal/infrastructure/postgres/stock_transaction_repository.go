package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo log append-only sobre PostgreSQL. Solo INSERT y SELECT.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

func (r *StockTransactionRepo) Append(ctx context.Context, tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO stock_transactions (id, warehouse_id, item_id, delta, kind, note, reference_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.WarehouseID, tx.ItemID, tx.Delta, string(tx.Kind),
		tx.Note, tx.ReferenceID, tx.UserID, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append stock transaction: %w", err)
	}
	return nil
}

func (r *StockTransactionRepo) ListByItem(ctx context.Context, itemID string, page repository.Page) ([]*entity.StockTransaction, int, error) {
	return r.list(ctx, goqu.C("item_id").Eq(itemID), page)
}

func (r *StockTransactionRepo) ListByWarehouse(ctx context.Context, warehouseID string, page repository.Page) ([]*entity.StockTransaction, int, error) {
	return r.list(ctx, goqu.C("warehouse_id").Eq(warehouseID), page)
}

// list ordena por created_at y luego por seq, que desempata registros del mismo instante.
func (r *StockTransactionRepo) list(ctx context.Context, where goqu.Expression, page repository.Page) ([]*entity.StockTransaction, int, error) {
	p := page.Normalize()
	base := dialect.From("stock_transactions").Where(where)
	pageDS := base.
		Select("id", "warehouse_id", "item_id", "delta", "kind", "note", "reference_id", "user_id", "created_at").
		Order(goqu.C("created_at").Desc(), goqu.C("seq").Desc()).
		Limit(uint(p.Limit)).
		Offset(uint(p.Offset))

	rows, total, err := countAndList(ctx, r.q, base, pageDS)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransaction
	for rows.Next() {
		var (
			t    entity.StockTransaction
			kind string
		)
		if err := rows.Scan(&t.ID, &t.WarehouseID, &t.ItemID, &t.Delta, &kind,
			&t.Note, &t.ReferenceID, &t.UserID, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock transaction: %w", err)
		}
		t.Kind = entity.TransactionKind(kind)
		list = append(list, &t)
	}
	return list, total, rows.Err()
}
