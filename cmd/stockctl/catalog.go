package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/postgres"
)

// newCatalogCmd carga bodegas e ítems. La administración del catálogo vive fuera del servicio;
// estos comandos sirven para sembrar entornos.
func newCatalogCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Carga de bodegas e ítems",
	}

	var whID, whName string
	warehouse := &cobra.Command{
		Use:   "add-warehouse <code>",
		Short: "Crea o actualiza una bodega",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := e.pool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			if whID == "" {
				whID = uuid.New().String()
			}
			if whName == "" {
				whName = args[0]
			}
			w := &entity.Warehouse{ID: whID, Code: args[0], Name: whName}
			if err := postgres.NewWarehouseRepository(pool).Save(ctx, w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bodega %s (%s)\n", w.Code, w.ID)
			return nil
		},
	}
	warehouse.Flags().StringVar(&whID, "id", "", "ID de la bodega; vacío genera un UUID")
	warehouse.Flags().StringVar(&whName, "name", "", "nombre visible")

	var itemID, category string
	item := &cobra.Command{
		Use:   "add-item <name>",
		Short: "Crea o actualiza un ítem del catálogo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := e.pool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			if itemID == "" {
				itemID = uuid.New().String()
			}
			it := &entity.InventoryItem{ID: itemID, Name: args[0], Category: category}
			if err := postgres.NewItemRepository(pool).Save(ctx, it); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ítem %s (%s)\n", it.Name, it.ID)
			return nil
		},
	}
	item.Flags().StringVar(&itemID, "id", "", "ID del ítem; vacío genera un UUID")
	item.Flags().StringVar(&category, "category", "", "categoría")

	cmd.AddCommand(warehouse, item)
	return cmd
}
