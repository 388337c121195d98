package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// Movement mutación del ledger junto con los datos del registro que la acompaña.
// Quantity es la magnitud (> 0) salvo en ajustes, donde es el delta con signo.
type Movement struct {
	WarehouseID string
	ItemID      string
	Kind        entity.TransactionKind
	Quantity    decimal.Decimal
	Note        string
	ReferenceID string
	UserID      string
	// AllowNegative solo aplica a ajustes: usa la suma sin verificación.
	AllowNegative bool
}

// Post aplica la mutación y agrega exactamente un registro cuyo delta es el cambio aplicado.
// Debe llamarse dentro de TxRunner.Run para que ambos efectos sean atómicos.
func Post(ctx context.Context, repos TxRepos, m Movement) (*entity.StockLevel, *entity.StockTransaction, error) {
	if m.WarehouseID == "" {
		return nil, nil, domain.Invalid("warehouse_id", "requerido")
	}
	if m.ItemID == "" {
		return nil, nil, domain.Invalid("item_id", "requerido")
	}
	if err := CheckScale("quantity", m.Quantity); err != nil {
		return nil, nil, err
	}

	var (
		level *entity.StockLevel
		delta decimal.Decimal
		err   error
	)
	switch m.Kind {
	case entity.TransactionInbound, entity.TransactionTransferIn:
		if !m.Quantity.IsPositive() {
			return nil, nil, domain.Invalid("quantity", "debe ser mayor que cero")
		}
		level, err = repos.Levels.Increment(ctx, m.WarehouseID, m.ItemID, m.Quantity)
		delta = m.Quantity
	case entity.TransactionOutbound, entity.TransactionTransferOut:
		if !m.Quantity.IsPositive() {
			return nil, nil, domain.Invalid("quantity", "debe ser mayor que cero")
		}
		level, err = repos.Levels.DecrementChecked(ctx, m.WarehouseID, m.ItemID, m.Quantity)
		delta = m.Quantity.Neg()
	case entity.TransactionAdjustment:
		if m.Quantity.IsZero() {
			return nil, nil, domain.Invalid("delta", "no puede ser cero")
		}
		if m.Quantity.IsNegative() && !m.AllowNegative {
			level, err = repos.Levels.DecrementChecked(ctx, m.WarehouseID, m.ItemID, m.Quantity.Neg())
		} else {
			level, err = repos.Levels.AdjustUnchecked(ctx, m.WarehouseID, m.ItemID, m.Quantity)
		}
		delta = m.Quantity
	default:
		return nil, nil, domain.Invalid("kind", "tipo de movimiento desconocido")
	}
	if err != nil {
		return nil, nil, err
	}

	tx := &entity.StockTransaction{
		ID:          uuid.New().String(),
		WarehouseID: m.WarehouseID,
		ItemID:      m.ItemID,
		Delta:       delta,
		Kind:        m.Kind,
		Note:        m.Note,
		ReferenceID: m.ReferenceID,
		UserID:      m.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repos.Transactions.Append(ctx, tx); err != nil {
		return nil, nil, err
	}
	return level, tx, nil
}
