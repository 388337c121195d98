package inventory

import (
	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// ToStockLevelResponse convierte un nivel de stock a su DTO.
func ToStockLevelResponse(l *entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		WarehouseID: l.WarehouseID,
		ItemID:      l.ItemID,
		Quantity:    l.Quantity,
		MinStock:    l.MinStock,
		MaxStock:    l.MaxStock,
		LowStock:    l.IsLow(),
		UpdatedAt:   l.UpdatedAt,
	}
}

// ToTransactionResponse convierte un registro del log a su DTO.
func ToTransactionResponse(t *entity.StockTransaction) dto.StockTransactionResponse {
	return dto.StockTransactionResponse{
		ID:          t.ID,
		WarehouseID: t.WarehouseID,
		ItemID:      t.ItemID,
		Delta:       t.Delta,
		Kind:        t.Kind.String(),
		Note:        t.Note,
		ReferenceID: t.ReferenceID,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
	}
}
