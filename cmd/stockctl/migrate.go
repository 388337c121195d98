package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/hrims-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/hrims-stock/pkg/config"
)

func postgresPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema (embebidas en el binario)",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := postgres.MigrateUp(e.cfg.DB); err != nil {
				return err
			}
			return printVersion(cmd, e)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones (todas si --steps=0)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := postgres.MigrateDown(e.cfg.DB, steps); err != nil {
				return err
			}
			return printVersion(cmd, e)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "cantidad de migraciones a revertir; 0 = todas")

	version := &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión aplicada",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(cmd, e)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func printVersion(cmd *cobra.Command, e *env) error {
	v, dirty, err := postgres.MigrationVersion(e.cfg.DB)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "versión del esquema: %d (dirty=%t)\n", v, dirty)
	return nil
}
