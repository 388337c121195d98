package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo niveles de stock en memoria. Los objetos guardados nunca se mutan:
// cada escritura inserta una copia nueva.
type StockLevelRepo struct {
	s session
}

func firstLevel(txn *memdb.Txn, warehouseID, itemID string) (*entity.StockLevel, error) {
	raw, err := txn.First(tableLevels, "id", warehouseID, itemID)
	if err != nil {
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*entity.StockLevel), nil
}

func (r *StockLevelRepo) Get(_ context.Context, warehouseID, itemID string) (*entity.StockLevel, error) {
	txn, done := r.s.read()
	defer done()
	l, err := firstLevel(txn, warehouseID, itemID)
	if err != nil || l == nil {
		return nil, err
	}
	return l.Clone(), nil
}

// mutate lee la fila (o una nueva con cantidad 0), aplica fn sobre una copia y la guarda.
func (r *StockLevelRepo) mutate(warehouseID, itemID string, create bool, fn func(l *entity.StockLevel) error) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.s.write(func(txn *memdb.Txn) error {
		current, err := firstLevel(txn, warehouseID, itemID)
		if err != nil {
			return err
		}
		var next *entity.StockLevel
		switch {
		case current != nil:
			next = current.Clone()
		case create:
			next = &entity.StockLevel{WarehouseID: warehouseID, ItemID: itemID, Quantity: decimal.Zero}
		default:
			return &domain.NotFoundError{Entity: "stock_level", ID: warehouseID + "/" + itemID}
		}
		if err := fn(next); err != nil {
			return err
		}
		next.UpdatedAt = time.Now().UTC()
		if err := txn.Insert(tableLevels, next); err != nil {
			return fmt.Errorf("save stock level: %w", err)
		}
		out = next.Clone()
		return nil
	})
	return out, err
}

func (r *StockLevelRepo) Ensure(_ context.Context, warehouseID, itemID string) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.s.write(func(txn *memdb.Txn) error {
		current, err := firstLevel(txn, warehouseID, itemID)
		if err != nil {
			return err
		}
		if current != nil {
			out = current.Clone()
			return nil
		}
		l := &entity.StockLevel{WarehouseID: warehouseID, ItemID: itemID, Quantity: decimal.Zero, UpdatedAt: time.Now().UTC()}
		if err := txn.Insert(tableLevels, l); err != nil {
			return fmt.Errorf("ensure stock level: %w", err)
		}
		out = l.Clone()
		return nil
	})
	return out, err
}

func (r *StockLevelRepo) AdjustUnchecked(_ context.Context, warehouseID, itemID string, delta decimal.Decimal) (*entity.StockLevel, error) {
	return r.mutate(warehouseID, itemID, true, func(l *entity.StockLevel) error {
		l.Quantity = l.Quantity.Add(delta)
		return nil
	})
}

func (r *StockLevelRepo) DecrementChecked(_ context.Context, warehouseID, itemID string, amount decimal.Decimal) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.s.write(func(txn *memdb.Txn) error {
		current, err := firstLevel(txn, warehouseID, itemID)
		if err != nil {
			return err
		}
		available := decimal.Zero
		if current != nil {
			available = current.Quantity
		}
		if current == nil || available.LessThan(amount) {
			return &domain.InsufficientStockError{
				WarehouseID: warehouseID,
				ItemID:      itemID,
				Available:   available,
				Requested:   amount,
			}
		}
		next := current.Clone()
		next.Quantity = next.Quantity.Sub(amount)
		next.UpdatedAt = time.Now().UTC()
		if err := txn.Insert(tableLevels, next); err != nil {
			return fmt.Errorf("decrement stock level: %w", err)
		}
		out = next.Clone()
		return nil
	})
	return out, err
}

func (r *StockLevelRepo) Increment(_ context.Context, warehouseID, itemID string, amount decimal.Decimal) (*entity.StockLevel, error) {
	return r.mutate(warehouseID, itemID, true, func(l *entity.StockLevel) error {
		l.Quantity = l.Quantity.Add(amount)
		return nil
	})
}

func (r *StockLevelRepo) SetLimits(_ context.Context, warehouseID, itemID string, minStock, maxStock *decimal.Decimal) (*entity.StockLevel, error) {
	return r.mutate(warehouseID, itemID, false, func(l *entity.StockLevel) error {
		l.MinStock, l.MaxStock = copyDecimal(minStock), copyDecimal(maxStock)
		return nil
	})
}

func (r *StockLevelRepo) List(_ context.Context, f repository.StockLevelFilter) ([]*entity.StockLevel, int, error) {
	txn, done := r.s.read()
	defer done()

	var (
		it  memdb.ResultIterator
		err error
	)
	switch {
	case f.WarehouseID != "":
		it, err = txn.Get(tableLevels, "warehouse", f.WarehouseID)
	case f.ItemID != "":
		it, err = txn.Get(tableLevels, "item", f.ItemID)
	default:
		it, err = txn.Get(tableLevels, "id")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list stock levels: %w", err)
	}

	var list []*entity.StockLevel
	for raw := it.Next(); raw != nil; raw = it.Next() {
		l := raw.(*entity.StockLevel)
		if f.ItemID != "" && l.ItemID != f.ItemID {
			continue
		}
		if f.LowOnly && !l.IsLow() {
			continue
		}
		list = append(list, l.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].WarehouseID != list[j].WarehouseID {
			return list[i].WarehouseID < list[j].WarehouseID
		}
		return list[i].ItemID < list[j].ItemID
	})
	return paginate(list, f.Page), len(list), nil
}

func (r *StockLevelRepo) Discrepancies(_ context.Context) ([]repository.Discrepancy, error) {
	txn, done := r.s.read()
	defer done()

	sums := map[[2]string]decimal.Decimal{}
	txIt, err := txn.Get(tableTransactions, "id")
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	for raw := txIt.Next(); raw != nil; raw = txIt.Next() {
		row := raw.(*txRow)
		k := [2]string{row.WarehouseID, row.ItemID}
		sums[k] = sums[k].Add(row.Tx.Delta)
	}

	var out []repository.Discrepancy
	seen := map[[2]string]bool{}
	lvIt, err := txn.Get(tableLevels, "id")
	if err != nil {
		return nil, fmt.Errorf("scan stock levels: %w", err)
	}
	for raw := lvIt.Next(); raw != nil; raw = lvIt.Next() {
		l := raw.(*entity.StockLevel)
		k := [2]string{l.WarehouseID, l.ItemID}
		seen[k] = true
		if !l.Quantity.Equal(sums[k]) {
			out = append(out, repository.Discrepancy{WarehouseID: l.WarehouseID, ItemID: l.ItemID, Quantity: l.Quantity, LedgerSum: sums[k]})
		}
	}
	for k, sum := range sums {
		if !seen[k] && !sum.IsZero() {
			out = append(out, repository.Discrepancy{WarehouseID: k[0], ItemID: k[1], Quantity: decimal.Zero, LedgerSum: sum})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
