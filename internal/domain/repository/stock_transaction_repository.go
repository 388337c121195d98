package repository

import (
	"context"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// StockTransactionRepository log append-only de movimientos. Nunca actualiza ni borra.
// Los listados se ordenan del más reciente al más antiguo y devuelven el total.
type StockTransactionRepository interface {
	Append(ctx context.Context, tx *entity.StockTransaction) error
	ListByItem(ctx context.Context, itemID string, page Page) ([]*entity.StockTransaction, int, error)
	ListByWarehouse(ctx context.Context, warehouseID string, page Page) ([]*entity.StockTransaction, int, error)
}
