package memory

import (
	"context"
	"fmt"
	"sort"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo traslados en memoria.
type StockTransferRepo struct {
	s session
}

func cloneTransfer(t *entity.StockTransfer) *entity.StockTransfer {
	c := *t
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		c.CompletedAt = &v
	}
	return &c
}

func (r *StockTransferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	return r.s.write(func(txn *memdb.Txn) error {
		existing, err := txn.First(tableTransfers, "id", t.ID)
		if err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("create transfer: %w", domain.ErrConflict)
		}
		if err := txn.Insert(tableTransfers, cloneTransfer(t)); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		return nil
	})
}

func (r *StockTransferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	txn, done := r.s.read()
	defer done()
	raw, err := txn.First(tableTransfers, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return cloneTransfer(raw.(*entity.StockTransfer)), nil
}

// GetForUpdate equivale a GetByID: dentro de Run la transacción ya es exclusiva.
func (r *StockTransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *StockTransferRepo) Update(_ context.Context, t *entity.StockTransfer) error {
	return r.s.write(func(txn *memdb.Txn) error {
		raw, err := txn.First(tableTransfers, "id", t.ID)
		if err != nil {
			return fmt.Errorf("update transfer: %w", err)
		}
		if raw == nil {
			return &domain.NotFoundError{Entity: "stock_transfer", ID: t.ID}
		}
		if err := txn.Insert(tableTransfers, cloneTransfer(t)); err != nil {
			return fmt.Errorf("update transfer: %w", err)
		}
		return nil
	})
}

func (r *StockTransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, int, error) {
	txn, done := r.s.read()
	defer done()
	it, err := txn.Get(tableTransfers, "id")
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	var list []*entity.StockTransfer
	for raw := it.Next(); raw != nil; raw = it.Next() {
		t := raw.(*entity.StockTransfer)
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.WarehouseID != "" && t.FromWarehouseID != f.WarehouseID && t.ToWarehouseID != f.WarehouseID {
			continue
		}
		list = append(list, cloneTransfer(t))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return paginate(list, f.Page), len(list), nil
}
