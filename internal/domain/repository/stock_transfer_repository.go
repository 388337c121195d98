package repository

import (
	"context"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// TransferFilter filtros del listado de traslados. WarehouseID coincide con origen o destino.
type TransferFilter struct {
	Status      entity.TransferStatus
	WarehouseID string
	Page        Page
}

// StockTransferRepository persistencia de traslados entre bodegas.
type StockTransferRepository interface {
	Create(ctx context.Context, t *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error)
	Update(ctx context.Context, t *entity.StockTransfer) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.StockTransfer, int, error)
}
