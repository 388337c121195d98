package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	memdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// txRow envuelve el registro con un número de secuencia para ordenar empates de created_at.
type txRow struct {
	Seq         uint64
	ID          string
	WarehouseID string
	ItemID      string
	Tx          *entity.StockTransaction
}

// StockTransactionRepo log append-only en memoria.
type StockTransactionRepo struct {
	s session
}

func (r *StockTransactionRepo) Append(_ context.Context, tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	c := *tx
	row := &txRow{
		Seq:         r.s.store.nextSeq(),
		ID:          c.ID,
		WarehouseID: c.WarehouseID,
		ItemID:      c.ItemID,
		Tx:          &c,
	}
	return r.s.write(func(txn *memdb.Txn) error {
		existing, err := txn.First(tableTransactions, "id", row.ID)
		if err != nil {
			return fmt.Errorf("append stock transaction: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("append stock transaction: id %s duplicado", row.ID)
		}
		if err := txn.Insert(tableTransactions, row); err != nil {
			return fmt.Errorf("append stock transaction: %w", err)
		}
		return nil
	})
}

func (r *StockTransactionRepo) ListByItem(_ context.Context, itemID string, page repository.Page) ([]*entity.StockTransaction, int, error) {
	return r.list("item", itemID, page)
}

func (r *StockTransactionRepo) ListByWarehouse(_ context.Context, warehouseID string, page repository.Page) ([]*entity.StockTransaction, int, error) {
	return r.list("warehouse", warehouseID, page)
}

func (r *StockTransactionRepo) list(index, value string, page repository.Page) ([]*entity.StockTransaction, int, error) {
	txn, done := r.s.read()
	defer done()
	it, err := txn.Get(tableTransactions, index, value)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock transactions: %w", err)
	}
	var rows []*txRow
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rows = append(rows, raw.(*txRow))
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Tx.CreatedAt.Equal(b.Tx.CreatedAt) {
			return a.Tx.CreatedAt.After(b.Tx.CreatedAt)
		}
		return a.Seq > b.Seq
	})
	total := len(rows)
	rows = paginate(rows, page)
	out := make([]*entity.StockTransaction, 0, len(rows))
	for _, row := range rows {
		c := *row.Tx
		out = append(out, &c)
	}
	return out, total, nil
}
