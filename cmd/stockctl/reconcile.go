package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/hrims-stock/internal/infrastructure/postgres"
)

// errDiscrepancies hace que el proceso termine con código 1 sin imprimir un error adicional.
var errDiscrepancies = errors.New("hay pares descuadrados")

func newReconcileCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Compara cada nivel de stock con la suma de su historial",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := e.pool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			list, err := postgres.NewStockLevelRepository(pool).Discrepancies(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "sin descuadres")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BODEGA\tÍTEM\tCANTIDAD\tSUMA HISTORIAL")
			for _, d := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.WarehouseID, d.ItemID, d.Quantity, d.LedgerSum)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			e.log.Error().Int("pairs", len(list)).Msg("conciliación con descuadres")
			return errDiscrepancies
		},
	}
}
