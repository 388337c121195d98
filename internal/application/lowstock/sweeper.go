package lowstock

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

type levelLister interface {
	List(ctx context.Context, filter repository.StockLevelFilter) ([]*entity.StockLevel, int, error)
}

// Sweeper revisa periódicamente todas las filas bajo mínimo y alerta por cada una.
type Sweeper struct {
	levels  levelLister
	monitor *Monitor
	log     zerolog.Logger
}

// NewSweeper construye el barrido.
func NewSweeper(levels levelLister, monitor *Monitor, log zerolog.Logger) *Sweeper {
	return &Sweeper{levels: levels, monitor: monitor, log: log}
}

// Sweep recorre las filas bajo mínimo página a página y devuelve cuántas alertas emitió.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	page := repository.Page{Limit: repository.MaxPageLimit}
	fired := 0
	for {
		list, _, err := s.levels.List(ctx, repository.StockLevelFilter{LowOnly: true, Page: page})
		if err != nil {
			return fired, fmt.Errorf("listar stock bajo: %w", err)
		}
		for _, l := range list {
			if s.monitor.Observe(ctx, l) {
				fired++
			}
		}
		if len(list) < page.Limit {
			break
		}
		page.Offset += page.Limit
	}
	s.log.Info().Int("alerts", fired).Msg("barrido de stock bajo finalizado")
	return fired, nil
}
