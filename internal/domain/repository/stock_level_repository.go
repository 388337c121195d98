package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// StockLevelFilter filtros del listado de niveles de stock.
type StockLevelFilter struct {
	WarehouseID string
	ItemID      string
	LowOnly     bool // solo filas con min_stock definido y quantity <= min_stock
	Page        Page
}

// Discrepancy par cuya cantidad no coincide con la suma de su log de transacciones.
type Discrepancy struct {
	WarehouseID string
	ItemID      string
	Quantity    decimal.Decimal
	LedgerSum   decimal.Decimal
}

// StockLevelRepository puerto del ledger de cantidades por (bodega, ítem).
// Cada operación de escritura es un único paso atómico sobre la fila.
type StockLevelRepository interface {
	// Get devuelve nil, nil si el par no existe.
	Get(ctx context.Context, warehouseID, itemID string) (*entity.StockLevel, error)
	// Ensure devuelve la fila existente o la crea con cantidad 0.
	Ensure(ctx context.Context, warehouseID, itemID string) (*entity.StockLevel, error)
	// AdjustUnchecked suma delta (positivo o negativo) sin validar el resultado.
	AdjustUnchecked(ctx context.Context, warehouseID, itemID string, delta decimal.Decimal) (*entity.StockLevel, error)
	// DecrementChecked verifica quantity >= amount y resta en el mismo paso.
	// Si no alcanza devuelve *domain.InsufficientStockError y la fila queda intacta.
	DecrementChecked(ctx context.Context, warehouseID, itemID string, amount decimal.Decimal) (*entity.StockLevel, error)
	// Increment suma amount creando la fila si no existe.
	Increment(ctx context.Context, warehouseID, itemID string, amount decimal.Decimal) (*entity.StockLevel, error)
	SetLimits(ctx context.Context, warehouseID, itemID string, minStock, maxStock *decimal.Decimal) (*entity.StockLevel, error)
	// List devuelve la página pedida y el total de filas que cumplen el filtro.
	List(ctx context.Context, filter StockLevelFilter) ([]*entity.StockLevel, int, error)
	Discrepancies(ctx context.Context) ([]Discrepancy, error)
}
