package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/hrims-stock/pkg/config"
	"github.com/jhoicas/hrims-stock/pkg/logger"
)

// env configuración y logger compartidos por los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Operación del servicio de inventario",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "stockctl", Output: os.Stderr})
			return nil
		},
	}
	root.AddCommand(
		newMigrateCmd(e),
		newReconcileCmd(e),
		newSweepCmd(e),
		newCatalogCmd(e),
	)
	return root
}

func (e *env) pool(ctx context.Context) (*pgxpool.Pool, error) {
	return postgresPool(ctx, e.cfg)
}
