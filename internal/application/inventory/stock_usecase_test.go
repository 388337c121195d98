package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/application/lowstock"
	"github.com/jhoicas/hrims-stock/internal/application/notification"
	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev notification.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fixture struct {
	store  *memory.Store
	runner *memory.TxRunner
	pub    *recordingPublisher
	uc     *inventory.StockUseCase
	hist   *inventory.HistoryUseCase
}

func newFixture(t *testing.T, opts inventory.Options) *fixture {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)
	require.NoError(t, store.Warehouses().Save(&entity.Warehouse{ID: "wh-a", Code: "WH-A", Name: "Bodega A"}))
	require.NoError(t, store.Warehouses().Save(&entity.Warehouse{ID: "wh-b", Code: "WH-B", Name: "Bodega B"}))
	require.NoError(t, store.Items().Save(&entity.InventoryItem{ID: "item-x", Name: "Guantes"}))
	require.NoError(t, store.Items().Save(&entity.InventoryItem{ID: "item-y", Name: "Tapabocas"}))

	log := zerolog.Nop()
	pub := &recordingPublisher{}
	runner := memory.NewTxRunner(store)
	catalog := inventory.NewCatalog(store.Warehouses(), store.Items())
	monitor := lowstock.NewMonitor(lowstock.Config{Enabled: true}, pub, log)
	return &fixture{
		store:  store,
		runner: runner,
		pub:    pub,
		uc:     inventory.NewStockUseCase(runner, store.StockLevels(), catalog, monitor, log, opts),
		hist:   inventory.NewHistoryUseCase(store.StockTransactions()),
	}
}

func (f *fixture) receive(t *testing.T, warehouseID string, lines ...dto.StockLineRequest) *dto.ReceiveInboundResponse {
	t.Helper()
	res, err := f.uc.ReceiveInbound(context.Background(), "u-1", dto.ReceiveInboundRequest{WarehouseID: warehouseID, Items: lines})
	require.NoError(t, err)
	return res
}

func (f *fixture) quantity(t *testing.T, warehouseID, itemID string) decimal.Decimal {
	t.Helper()
	l, err := f.uc.GetLevel(context.Background(), warehouseID, itemID)
	require.NoError(t, err)
	return l.Quantity
}

func line(itemID string, qty int64) dto.StockLineRequest {
	return dto.StockLineRequest{ItemID: itemID, Quantity: decimal.NewFromInt(qty)}
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestReceiveInbound_CreaFilasYRegistros(t *testing.T) {
	f := newFixture(t, inventory.Options{})

	res := f.receive(t, "wh-a", line("item-y", 3), line("item-x", 5))
	require.Len(t, res.Levels, 2)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "item-x", res.Levels[0].ItemID)
	assert.Equal(t, "inbound", res.Transactions[0].Kind)
	assert.True(t, decimal.NewFromInt(5).Equal(res.Transactions[0].Delta))

	f.receive(t, "wh-a", line("item-x", 2))
	assert.True(t, decimal.NewFromInt(7).Equal(f.quantity(t, "wh-a", "item-x")))
	assert.True(t, decimal.NewFromInt(3).Equal(f.quantity(t, "wh-a", "item-y")))
}

func TestReceiveInbound_LineaInvalidaNoAplicaNada(t *testing.T) {
	f := newFixture(t, inventory.Options{})

	_, err := f.uc.ReceiveInbound(context.Background(), "u-1", dto.ReceiveInboundRequest{
		WarehouseID: "wh-a",
		Items:       []dto.StockLineRequest{line("item-x", 5), line("item-z", 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.ReceiveInbound(context.Background(), "u-1", dto.ReceiveInboundRequest{
		WarehouseID: "wh-z",
		Items:       []dto.StockLineRequest{line("item-x", 5)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.GetLevel(context.Background(), "wh-a", "item-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.receive(t, "wh-a", line("item-x", 5))
	ctx := context.Background()

	res, err := f.uc.AdjustStock(ctx, "u-1", "wh-a", "item-x", dto.AdjustStockRequest{Delta: decimal.NewFromInt(-2), Note: "conteo físico"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(res.Level.Quantity))
	assert.Equal(t, "adjustment", res.Transaction.Kind)
	assert.True(t, decimal.NewFromInt(-2).Equal(res.Transaction.Delta))

	_, err = f.uc.AdjustStock(ctx, "u-1", "wh-a", "item-x", dto.AdjustStockRequest{Delta: decimal.NewFromInt(-4)})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, decimal.NewFromInt(3).Equal(insufficient.Available))

	_, err = f.uc.AdjustStock(ctx, "u-1", "wh-a", "item-y", dto.AdjustStockRequest{Delta: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.AdjustStock(ctx, "u-1", "wh-a", "item-x", dto.AdjustStockRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustStock_NegativoPermitido(t *testing.T) {
	f := newFixture(t, inventory.Options{AllowNegativeAdjustments: true})
	f.receive(t, "wh-a", line("item-x", 1))

	res, err := f.uc.AdjustStock(context.Background(), "u-1", "wh-a", "item-x", dto.AdjustStockRequest{Delta: decimal.NewFromInt(-3)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-2).Equal(res.Level.Quantity))

	d, err := f.uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestAdjustStock_AlertaSoloAlBajar(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.receive(t, "wh-a", line("item-x", 6))
	ctx := context.Background()
	_, err := f.uc.SetLimits(ctx, "wh-a", "item-x", dto.StockLimitsRequest{MinStock: dec(5)})
	require.NoError(t, err)

	_, err = f.uc.AdjustStock(ctx, "u-1", "wh-a", "item-x", dto.AdjustStockRequest{Delta: decimal.NewFromInt(-2)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.pub.count())

	_, err = f.uc.AdjustStock(ctx, "u-1", "wh-a", "item-x", dto.AdjustStockRequest{Delta: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.pub.count())
}

func TestSetLimits(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()

	res, err := f.uc.SetLimits(ctx, "wh-b", "item-x", dto.StockLimitsRequest{MinStock: dec(2), MaxStock: dec(10)})
	require.NoError(t, err)
	assert.True(t, res.Quantity.IsZero())
	assert.True(t, res.LowStock)
	require.NotNil(t, res.MaxStock)
	assert.True(t, decimal.NewFromInt(10).Equal(*res.MaxStock))

	res, err = f.uc.SetLimits(ctx, "wh-b", "item-x", dto.StockLimitsRequest{})
	require.NoError(t, err)
	assert.Nil(t, res.MinStock)
	assert.False(t, res.LowStock)

	_, err = f.uc.SetLimits(ctx, "wh-b", "item-x", dto.StockLimitsRequest{MinStock: dec(5), MaxStock: dec(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.SetLimits(ctx, "wh-b", "item-x", dto.StockLimitsRequest{MinStock: dec(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.SetLimits(ctx, "wh-z", "item-x", dto.StockLimitsRequest{MinStock: dec(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d, err := f.uc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestListLevels_SoloBajoMinimo(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.receive(t, "wh-a", line("item-x", 2), line("item-y", 9))
	f.receive(t, "wh-b", line("item-x", 1))
	_, err := f.uc.SetLimits(ctx, "wh-a", "item-x", dto.StockLimitsRequest{MinStock: dec(3)})
	require.NoError(t, err)
	_, err = f.uc.SetLimits(ctx, "wh-a", "item-y", dto.StockLimitsRequest{MinStock: dec(3)})
	require.NoError(t, err)

	all, err := f.uc.ListLevels(ctx, "", "", false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	low, err := f.uc.ListLevels(ctx, "", "", true, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "wh-a", low.Items[0].WarehouseID)
	assert.Equal(t, "item-x", low.Items[0].ItemID)

	byItem, err := f.uc.ListLevels(ctx, "", "item-x", false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, byItem.Items, 2)
}

func TestListLevels_TotalCuentaTodasLasFilas(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.receive(t, "wh-a", line("item-x", 2), line("item-y", 9))
	f.receive(t, "wh-b", line("item-x", 1))

	first, err := f.uc.ListLevels(ctx, "", "", false, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first.Items, 2)
	assert.Equal(t, 3, first.Page.Total)

	second, err := f.uc.ListLevels(ctx, "", "", false, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, 3, second.Page.Total)
	assert.Equal(t, "wh-b", second.Items[0].WarehouseID)
}

func TestPost_RollbackDescartaFilaYRegistro(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.receive(t, "wh-a", line("item-x", 4))
	ctx := context.Background()

	// Un fallo después de Post descarta tanto la fila como el registro.
	err := f.runner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		if _, _, err := inventory.Post(ctx, repos, inventory.Movement{
			WarehouseID: "wh-a", ItemID: "item-x", Kind: entity.TransactionOutbound, Quantity: decimal.NewFromInt(3),
		}); err != nil {
			return err
		}
		return domain.ErrConflict
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, decimal.NewFromInt(4).Equal(f.quantity(t, "wh-a", "item-x")))

	hist, err := f.hist.ListByItem(ctx, "item-x", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, hist.Page.Total)
}

func TestPost_ValidaElMovimiento(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	cases := []struct {
		name string
		m    inventory.Movement
	}{
		{"sin bodega", inventory.Movement{ItemID: "item-x", Kind: entity.TransactionInbound, Quantity: decimal.NewFromInt(1)}},
		{"entrada negativa", inventory.Movement{WarehouseID: "wh-a", ItemID: "item-x", Kind: entity.TransactionInbound, Quantity: decimal.NewFromInt(-1)}},
		{"ajuste cero", inventory.Movement{WarehouseID: "wh-a", ItemID: "item-x", Kind: entity.TransactionAdjustment}},
		{"más de cuatro decimales", inventory.Movement{WarehouseID: "wh-a", ItemID: "item-x", Kind: entity.TransactionOutbound, Quantity: decimal.RequireFromString("0.00015")}},
		{"tipo desconocido", inventory.Movement{WarehouseID: "wh-a", ItemID: "item-x", Kind: "loan", Quantity: decimal.NewFromInt(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.runner.Run(context.Background(), func(ctx context.Context, repos inventory.TxRepos) error {
				_, _, err := inventory.Post(ctx, repos, tc.m)
				return err
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestEscala_RechazaMasDeCuatroDecimales(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.receive(t, "wh-a", line("item-x", 10))
	tooPrecise := decimal.RequireFromString("0.00015")

	_, err := f.uc.ReceiveInbound(ctx, "u-1", dto.ReceiveInboundRequest{
		WarehouseID: "wh-a",
		Items:       []dto.StockLineRequest{{ItemID: "item-x", Quantity: tooPrecise}},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[0].quantity", verr.Field)

	_, err = f.uc.AdjustStock(ctx, "u-1", "wh-a", "item-x", dto.AdjustStockRequest{Delta: tooPrecise.Neg()})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "delta", verr.Field)

	_, err = f.uc.SetLimits(ctx, "wh-a", "item-x", dto.StockLimitsRequest{MinStock: &tooPrecise})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "min_stock", verr.Field)

	assert.True(t, decimal.NewFromInt(10).Equal(f.quantity(t, "wh-a", "item-x")))
	d, err := f.uc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestEscala_CuatroDecimalesYCerosFinalesSeAceptan(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.receive(t, "wh-a", line("item-x", 10))

	_, err := f.uc.AdjustStock(ctx, "u-1", "wh-a", "item-x", dto.AdjustStockRequest{Delta: decimal.RequireFromString("-0.0001")})
	require.NoError(t, err)
	_, err = f.uc.ReceiveInbound(ctx, "u-1", dto.ReceiveInboundRequest{
		WarehouseID: "wh-a",
		Items:       []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.RequireFromString("1.500000")}},
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("11.4999").Equal(f.quantity(t, "wh-a", "item-x")))
}
