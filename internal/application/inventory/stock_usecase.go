package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/application/lowstock"
	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

// Options políticas del ledger inyectadas desde la configuración.
type Options struct {
	// AllowNegativeAdjustments permite que un ajuste deje la cantidad bajo cero.
	AllowNegativeAdjustments bool
}

// StockUseCase entradas, ajustes, umbrales y consultas del ledger.
type StockUseCase struct {
	txRunner TxRunner
	levels   repository.StockLevelRepository
	catalog  *Catalog
	monitor  *lowstock.Monitor
	log      zerolog.Logger
	opts     Options
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	levels repository.StockLevelRepository,
	catalog *Catalog,
	monitor *lowstock.Monitor,
	log zerolog.Logger,
	opts Options,
) *StockUseCase {
	return &StockUseCase{
		txRunner: txRunner,
		levels:   levels,
		catalog:  catalog,
		monitor:  monitor,
		log:      log,
		opts:     opts,
	}
}

// ReceiveInbound registra una entrada multi-línea en una sola transacción.
// Las filas inexistentes se crean; superar max_stock solo genera una advertencia.
func (uc *StockUseCase) ReceiveInbound(ctx context.Context, userID string, in dto.ReceiveInboundRequest) (*dto.ReceiveInboundResponse, error) {
	lines, err := NormalizeLines(in.Items)
	if err != nil {
		return nil, err
	}
	if _, err := uc.catalog.RequireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if _, err := uc.catalog.RequireItem(ctx, l.ItemID); err != nil {
			return nil, err
		}
	}

	var (
		levels []*entity.StockLevel
		txs    []*entity.StockTransaction
	)
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		levels, txs = levels[:0], txs[:0]
		for _, l := range lines {
			level, tx, err := Post(ctx, repos, Movement{
				WarehouseID: in.WarehouseID,
				ItemID:      l.ItemID,
				Kind:        entity.TransactionInbound,
				Quantity:    l.Quantity,
				Note:        in.Note,
				ReferenceID: in.ReferenceID,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
			levels = append(levels, level)
			txs = append(txs, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &dto.ReceiveInboundResponse{
		Levels:       make([]dto.StockLevelResponse, 0, len(levels)),
		Transactions: make([]dto.StockTransactionResponse, 0, len(txs)),
	}
	for i := range levels {
		uc.warnAboveMax(levels[i])
		out.Levels = append(out.Levels, ToStockLevelResponse(levels[i]))
		out.Transactions = append(out.Transactions, ToTransactionResponse(txs[i]))
	}
	return out, nil
}

// AdjustStock aplica un ajuste administrativo con signo sobre una fila existente.
func (uc *StockUseCase) AdjustStock(ctx context.Context, userID, warehouseID, itemID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if warehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "requerido")
	}
	if itemID == "" {
		return nil, domain.Invalid("item_id", "requerido")
	}
	if in.Delta.IsZero() {
		return nil, domain.Invalid("delta", "no puede ser cero")
	}
	if err := CheckScale("delta", in.Delta); err != nil {
		return nil, err
	}

	var (
		level *entity.StockLevel
		tx    *entity.StockTransaction
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		current, err := repos.Levels.Get(ctx, warehouseID, itemID)
		if err != nil {
			return err
		}
		if current == nil {
			return &domain.NotFoundError{Entity: "stock_level", ID: warehouseID + "/" + itemID}
		}
		level, tx, err = Post(ctx, repos, Movement{
			WarehouseID:   warehouseID,
			ItemID:        itemID,
			Kind:          entity.TransactionAdjustment,
			Quantity:      in.Delta,
			Note:          in.Note,
			UserID:        userID,
			AllowNegative: uc.opts.AllowNegativeAdjustments,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if in.Delta.IsNegative() {
		uc.monitor.Observe(ctx, level)
	}
	uc.warnAboveMax(level)
	return &dto.AdjustStockResponse{
		Level:       ToStockLevelResponse(level),
		Transaction: ToTransactionResponse(tx),
	}, nil
}

// SetLimits define min/max de un par, creando la fila con cantidad 0 si no existe.
func (uc *StockUseCase) SetLimits(ctx context.Context, warehouseID, itemID string, in dto.StockLimitsRequest) (*dto.StockLevelResponse, error) {
	if in.MinStock != nil && in.MinStock.IsNegative() {
		return nil, domain.Invalid("min_stock", "no puede ser negativo")
	}
	if in.MaxStock != nil && in.MaxStock.IsNegative() {
		return nil, domain.Invalid("max_stock", "no puede ser negativo")
	}
	if in.MinStock != nil {
		if err := CheckScale("min_stock", *in.MinStock); err != nil {
			return nil, err
		}
	}
	if in.MaxStock != nil {
		if err := CheckScale("max_stock", *in.MaxStock); err != nil {
			return nil, err
		}
	}
	if in.MinStock != nil && in.MaxStock != nil && in.MinStock.GreaterThan(*in.MaxStock) {
		return nil, domain.Invalid("min_stock", "no puede superar max_stock")
	}
	if _, err := uc.catalog.RequireWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.catalog.RequireItem(ctx, itemID); err != nil {
		return nil, err
	}

	var level *entity.StockLevel
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		if _, err := repos.Levels.Ensure(ctx, warehouseID, itemID); err != nil {
			return err
		}
		var err error
		level, err = repos.Levels.SetLimits(ctx, warehouseID, itemID, in.MinStock, in.MaxStock)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := ToStockLevelResponse(level)
	return &out, nil
}

// GetLevel devuelve el nivel de un par o NotFoundError.
func (uc *StockUseCase) GetLevel(ctx context.Context, warehouseID, itemID string) (*dto.StockLevelResponse, error) {
	level, err := uc.levels.Get(ctx, warehouseID, itemID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, &domain.NotFoundError{Entity: "stock_level", ID: warehouseID + "/" + itemID}
	}
	out := ToStockLevelResponse(level)
	return &out, nil
}

// ListLevels lista niveles por bodega/ítem, opcionalmente solo los que están bajo mínimo.
func (uc *StockUseCase) ListLevels(ctx context.Context, warehouseID, itemID string, lowOnly bool, page dto.PageRequest) (*dto.StockLevelListResponse, error) {
	p := repository.Page{Limit: page.Limit, Offset: page.Offset}.Normalize()
	list, total, err := uc.levels.List(ctx, repository.StockLevelFilter{
		WarehouseID: warehouseID,
		ItemID:      itemID,
		LowOnly:     lowOnly,
		Page:        p,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLevelResponse, 0, len(list))
	for _, l := range list {
		items = append(items, ToStockLevelResponse(l))
	}
	return &dto.StockLevelListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	}, nil
}

// Reconcile devuelve los pares cuya cantidad difiere de la suma de su historial.
func (uc *StockUseCase) Reconcile(ctx context.Context) ([]dto.DiscrepancyResponse, error) {
	list, err := uc.levels.Discrepancies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DiscrepancyResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.DiscrepancyResponse{
			WarehouseID: d.WarehouseID,
			ItemID:      d.ItemID,
			Quantity:    d.Quantity,
			LedgerSum:   d.LedgerSum,
		})
	}
	return out, nil
}

func (uc *StockUseCase) warnAboveMax(level *entity.StockLevel) {
	WarnAboveMax(uc.log, level)
}

// WarnAboveMax registra una advertencia no bloqueante si la fila supera max_stock.
func WarnAboveMax(log zerolog.Logger, level *entity.StockLevel) {
	if level == nil || !level.ExceedsMax() {
		return
	}
	log.Warn().
		Str("warehouse_id", level.WarehouseID).
		Str("item_id", level.ItemID).
		Str("quantity", level.Quantity.String()).
		Str("max_stock", level.MaxStock.String()).
		Msg("stock por encima del máximo configurado")
}
