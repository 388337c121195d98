package inventory

import (
	"context"
	"iter"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

type pageFetcher func(ctx context.Context, page repository.Page) ([]*entity.StockTransaction, int, error)

// HistoryUseCase consultas del log de transacciones (más reciente primero).
type HistoryUseCase struct {
	txs repository.StockTransactionRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(txs repository.StockTransactionRepository) *HistoryUseCase {
	return &HistoryUseCase{txs: txs}
}

// ListByItem página del historial de un ítem en todas las bodegas.
func (uc *HistoryUseCase) ListByItem(ctx context.Context, itemID string, page dto.PageRequest) (*dto.StockTransactionListResponse, error) {
	if itemID == "" {
		return nil, domain.Invalid("item_id", "requerido")
	}
	return uc.list(ctx, page, func(ctx context.Context, p repository.Page) ([]*entity.StockTransaction, int, error) {
		return uc.txs.ListByItem(ctx, itemID, p)
	})
}

// ListByWarehouse página del historial de una bodega.
func (uc *HistoryUseCase) ListByWarehouse(ctx context.Context, warehouseID string, page dto.PageRequest) (*dto.StockTransactionListResponse, error) {
	if warehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "requerido")
	}
	return uc.list(ctx, page, func(ctx context.Context, p repository.Page) ([]*entity.StockTransaction, int, error) {
		return uc.txs.ListByWarehouse(ctx, warehouseID, p)
	})
}

func (uc *HistoryUseCase) list(ctx context.Context, page dto.PageRequest, fetch pageFetcher) (*dto.StockTransactionListResponse, error) {
	p := repository.Page{Limit: page.Limit, Offset: page.Offset}.Normalize()
	list, total, err := fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockTransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, ToTransactionResponse(t))
	}
	return &dto.StockTransactionListResponse{
		Items:      items,
		Page:       dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}, nil
}

// IterateByItem recorre perezosamente el historial de un ítem, página a página.
// Cada range empieza desde el registro más reciente.
func (uc *HistoryUseCase) IterateByItem(ctx context.Context, itemID string, pageSize int) iter.Seq2[*entity.StockTransaction, error] {
	return iterate(ctx, pageSize, func(ctx context.Context, p repository.Page) ([]*entity.StockTransaction, int, error) {
		return uc.txs.ListByItem(ctx, itemID, p)
	})
}

// IterateByWarehouse recorre perezosamente el historial de una bodega.
func (uc *HistoryUseCase) IterateByWarehouse(ctx context.Context, warehouseID string, pageSize int) iter.Seq2[*entity.StockTransaction, error] {
	return iterate(ctx, pageSize, func(ctx context.Context, p repository.Page) ([]*entity.StockTransaction, int, error) {
		return uc.txs.ListByWarehouse(ctx, warehouseID, p)
	})
}

// iterate produce como máximo el total observado en la primera página, de modo que
// los registros agregados durante el recorrido no lo alargan.
func iterate(ctx context.Context, pageSize int, fetch pageFetcher) iter.Seq2[*entity.StockTransaction, error] {
	return func(yield func(*entity.StockTransaction, error) bool) {
		page := repository.Page{Limit: pageSize}.Normalize()
		remaining := -1
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			list, total, err := fetch(ctx, page)
			if err != nil {
				yield(nil, err)
				return
			}
			if remaining < 0 {
				remaining = total
			}
			for _, t := range list {
				if remaining == 0 {
					return
				}
				remaining--
				if !yield(t, nil) {
					return
				}
			}
			if remaining == 0 || len(list) < page.Limit {
				return
			}
			page.Offset += page.Limit
		}
	}
}
