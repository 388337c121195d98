package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/memory"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	s, err := memory.NewStore()
	require.NoError(t, err)
	return s
}

func TestStockLevels_DecrementChecked(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	levels := s.StockLevels()

	_, err := levels.DecrementChecked(ctx, "wh-a", "item-x", decimal.NewFromInt(1))
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.IsZero())

	_, err = levels.Increment(ctx, "wh-a", "item-x", decimal.NewFromInt(5))
	require.NoError(t, err)
	l, err := levels.DecrementChecked(ctx, "wh-a", "item-x", decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, l.Quantity.IsZero())

	_, err = levels.DecrementChecked(ctx, "wh-a", "item-x", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStockLevels_LecturasSonCopias(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	_, err := s.StockLevels().Increment(ctx, "wh-a", "item-x", decimal.NewFromInt(5))
	require.NoError(t, err)

	l, err := s.StockLevels().Get(ctx, "wh-a", "item-x")
	require.NoError(t, err)
	l.Quantity = decimal.NewFromInt(100)

	again, err := s.StockLevels().Get(ctx, "wh-a", "item-x")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(again.Quantity))

	missing, err := s.StockLevels().Get(ctx, "wh-a", "item-y")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStockLevels_SetLimitsRequiereFila(t *testing.T) {
	s := newStore(t)
	minStock := decimal.NewFromInt(2)
	_, err := s.StockLevels().SetLimits(context.Background(), "wh-a", "item-x", &minStock, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxRunner_ErrorDescartaTodo(t *testing.T) {
	s := newStore(t)
	runner := memory.NewTxRunner(s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := runner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		if _, err := repos.Levels.Increment(ctx, "wh-a", "item-x", decimal.NewFromInt(3)); err != nil {
			return err
		}
		if err := repos.Requests.Create(ctx, &entity.Request{ID: "r-1", UserID: "u-1", Status: entity.RequestPending}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	l, err := s.StockLevels().Get(ctx, "wh-a", "item-x")
	require.NoError(t, err)
	assert.Nil(t, l)
	r, err := s.Requests().GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	runner := memory.NewTxRunner(newStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := runner.Run(ctx, func(context.Context, inventory.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTxRunner_DecrementosConcurrentesNoSobregiran(t *testing.T) {
	s := newStore(t)
	runner := memory.NewTxRunner(s)
	ctx := context.Background()
	_, err := s.StockLevels().Increment(ctx, "wh-a", "item-x", decimal.NewFromInt(10))
	require.NoError(t, err)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
				_, err := repos.Levels.DecrementChecked(ctx, "wh-a", "item-x", decimal.NewFromInt(3))
				return err
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	l, err := s.StockLevels().Get(ctx, "wh-a", "item-x")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(l.Quantity))
}

func TestDiscrepancies(t *testing.T) {
	s := newStore(t)
	runner := memory.NewTxRunner(s)
	ctx := context.Background()

	err := runner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		_, _, err := inventory.Post(ctx, repos, inventory.Movement{
			WarehouseID: "wh-a", ItemID: "item-x", Kind: entity.TransactionInbound, Quantity: decimal.NewFromInt(4),
		})
		return err
	})
	require.NoError(t, err)

	d, err := s.StockLevels().Discrepancies(ctx)
	require.NoError(t, err)
	assert.Empty(t, d)

	// Mutación sin registro: la conciliación debe detectarla.
	_, err = s.StockLevels().AdjustUnchecked(ctx, "wh-a", "item-x", decimal.NewFromInt(1))
	require.NoError(t, err)
	d, err = s.StockLevels().Discrepancies(ctx)
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.True(t, decimal.NewFromInt(5).Equal(d[0].Quantity))
	assert.True(t, decimal.NewFromInt(4).Equal(d[0].LedgerSum))
}

func TestStockTransactions_OrdenYPaginacion(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	txs := s.StockTransactions()
	for i := 1; i <= 3; i++ {
		require.NoError(t, txs.Append(ctx, &entity.StockTransaction{
			WarehouseID: "wh-a",
			ItemID:      "item-x",
			Delta:       decimal.NewFromInt(int64(i)),
			Kind:        entity.TransactionInbound,
		}))
	}

	list, total, err := txs.ListByItem(ctx, "item-x", repository.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.True(t, decimal.NewFromInt(3).Equal(list[0].Delta))
	assert.NotEmpty(t, list[0].ID)

	list, _, err = txs.ListByWarehouse(ctx, "wh-a", repository.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.NewFromInt(1).Equal(list[0].Delta))
}

func TestDepartments(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	deps := s.Departments()

	require.NoError(t, deps.Upsert(ctx, &entity.DepartmentMapping{Department: "IT", WarehouseID: "wh-a"}))
	require.NoError(t, deps.Upsert(ctx, &entity.DepartmentMapping{Department: "IT", WarehouseID: "wh-b"}))
	id, found, err := deps.FindWarehouseID(ctx, "IT")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "wh-b", id)

	require.NoError(t, deps.Delete(ctx, "IT"))
	_, found, err = deps.FindWarehouseID(ctx, "IT")
	require.NoError(t, err)
	assert.False(t, found)
}
