package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/hrims-stock/internal/application/lowstock"
	"github.com/jhoicas/hrims-stock/internal/application/notification"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/messaging"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/postgres"
)

func newSweepCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-low-stock",
		Short: "Emite una alerta por cada par en o por debajo de su mínimo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := e.pool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			sinks, closeSinks, err := messaging.BuildSinks(e.cfg, e.log.Component("notification"))
			if err != nil {
				return err
			}
			defer closeSinks()
			dispatcher := notification.NewDispatcher(notification.DispatcherConfig{
				Workers:        e.cfg.Notify.Workers,
				QueueSize:      e.cfg.Notify.QueueSize,
				DeliverTimeout: e.cfg.Notify.DeliverTimeout,
			}, e.log.Zerolog(), sinks...)

			monitor := lowstock.NewMonitor(lowstock.Config{
				Enabled:   true,
				Recipient: e.cfg.Alerts.AdminRecipient,
			}, dispatcher, e.log.Component("lowstock"))
			fired, sweepErr := lowstock.NewSweeper(postgres.NewStockLevelRepository(pool), monitor, e.log.Component("lowstock")).Sweep(ctx)

			drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := dispatcher.Close(drainCtx); err != nil {
				e.log.Warn().Err(err).Msg("alertas pendientes descartadas")
			}
			if sweepErr != nil {
				return sweepErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "alertas emitidas: %d\n", fired)
			return nil
		},
	}
}
