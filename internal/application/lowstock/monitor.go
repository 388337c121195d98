package lowstock

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/notification"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// Config toggle de alertas y destinatario, inyectados desde la configuración.
type Config struct {
	Enabled   bool
	Recipient string
}

// Monitor observador posterior a cada decremento confirmado.
type Monitor struct {
	cfg Config
	pub notification.Publisher
	log zerolog.Logger
}

// NewMonitor construye el monitor. Recipient vacío usa el canal de administradores.
func NewMonitor(cfg Config, pub notification.Publisher, log zerolog.Logger) *Monitor {
	if cfg.Recipient == "" {
		cfg.Recipient = notification.AdminRecipient
	}
	return &Monitor{cfg: cfg, pub: pub, log: log}
}

// Observe publica una alerta si la fila quedó en o por debajo del mínimo.
// Nunca propaga errores al llamador; devuelve true si se emitió la alerta.
func (m *Monitor) Observe(ctx context.Context, level *entity.StockLevel) (fired bool) {
	if m == nil || !m.cfg.Enabled || level == nil || !level.IsLow() {
		return false
	}
	defer func() {
		if p := recover(); p != nil {
			m.log.Error().Interface("panic", p).Msg("alerta de stock bajo descartada")
			fired = false
		}
	}()
	m.pub.Publish(ctx, notification.NewEvent(notification.KindLowStock, m.cfg.Recipient, map[string]any{
		"warehouse_id": level.WarehouseID,
		"item_id":      level.ItemID,
		"quantity":     level.Quantity.String(),
		"min_stock":    level.MinStock.String(),
	}))
	return true
}
