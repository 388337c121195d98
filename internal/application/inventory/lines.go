package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/domain"
)

// QuantityScale decimales que admiten las columnas NUMERIC(18,4) del ledger y del log.
const QuantityScale = 4

// CheckScale rechaza cantidades con más decimales que QuantityScale. La base redondea
// el ledger y el delta por separado, así que sin este control sus sumas podrían divergir.
func CheckScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(QuantityScale)) {
		return domain.Invalid(field, fmt.Sprintf("admite como máximo %d decimales", QuantityScale))
	}
	return nil
}

// Line línea normalizada (ítem, cantidad > 0).
type Line struct {
	ItemID   string
	Quantity decimal.Decimal
}

// NormalizeLines valida las líneas, agrupa ítems repetidos y las ordena por ItemID.
// El orden fijo hace que transacciones concurrentes bloqueen filas en el mismo orden.
func NormalizeLines(in []dto.StockLineRequest) ([]Line, error) {
	if len(in) == 0 {
		return nil, domain.Invalid("items", "se requiere al menos un ítem")
	}
	byItem := make(map[string]decimal.Decimal, len(in))
	for i, l := range in {
		if l.ItemID == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].item_id", i), "requerido")
		}
		if !l.Quantity.IsPositive() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		if err := CheckScale(fmt.Sprintf("items[%d].quantity", i), l.Quantity); err != nil {
			return nil, err
		}
		byItem[l.ItemID] = byItem[l.ItemID].Add(l.Quantity)
	}
	out := make([]Line, 0, len(byItem))
	for id, q := range byItem {
		out = append(out, Line{ItemID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}
