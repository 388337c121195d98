package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/domain"
)

func TestHistory_PaginaMasRecientePrimero(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	for i := int64(1); i <= 5; i++ {
		f.receive(t, "wh-a", line("item-x", i))
	}
	ctx := context.Background()

	page, err := f.hist.ListByItem(ctx, "item-x", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.True(t, decimal.NewFromInt(5).Equal(page.Items[0].Delta))
	assert.True(t, decimal.NewFromInt(4).Equal(page.Items[1].Delta))

	last, err := f.hist.ListByItem(ctx, "item-x", dto.PageRequest{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.True(t, decimal.NewFromInt(1).Equal(last.Items[0].Delta))

	_, err = f.hist.ListByItem(ctx, "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_PorBodega(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.receive(t, "wh-a", line("item-x", 1), line("item-y", 1))
	f.receive(t, "wh-b", line("item-x", 1))

	res, err := f.hist.ListByWarehouse(context.Background(), "wh-a", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.Total)
	for _, tx := range res.Items {
		assert.Equal(t, "wh-a", tx.WarehouseID)
	}
}

func TestHistory_IteradorRecorreTodoYSeReinicia(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	for i := int64(1); i <= 7; i++ {
		f.receive(t, "wh-a", line("item-x", i))
	}
	seq := f.hist.IterateByItem(context.Background(), "item-x", 3)

	collect := func() []int64 {
		var out []int64
		for tx, err := range seq {
			require.NoError(t, err)
			out = append(out, tx.Delta.IntPart())
		}
		return out
	}
	assert.Equal(t, []int64{7, 6, 5, 4, 3, 2, 1}, collect())
	assert.Equal(t, []int64{7, 6, 5, 4, 3, 2, 1}, collect())
}

func TestHistory_IteradorCorteTemprano(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	for i := int64(1); i <= 4; i++ {
		f.receive(t, "wh-a", line("item-x", i))
	}
	n := 0
	for _, err := range f.hist.IterateByWarehouse(context.Background(), "wh-a", 2) {
		require.NoError(t, err)
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestHistory_IteradorContextoCancelado(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.receive(t, "wh-a", line("item-x", 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range f.hist.IterateByItem(ctx, "item-x", 10) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, context.Canceled)
}
