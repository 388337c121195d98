package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrims-stock/pkg/config"
	"github.com/jhoicas/hrims-stock/pkg/logger"
)

func TestOpenMemory_SiembraCatalogo(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Driver:         "memory",
			SeedWarehouses: []string{"WH-A=Bodega A", "WH-B"},
			SeedItems:      []string{"item-x=Guantes", " item-y "},
		},
		Workflow: config.WorkflowConfig{DefaultWarehouseCode: "CENTRAL"},
	}
	st, err := openMemory(cfg, logger.New(logger.Config{Output: io.Discard}))
	require.NoError(t, err)
	ctx := context.Background()

	wh, err := st.warehouses.GetByID(ctx, "WH-A")
	require.NoError(t, err)
	require.NotNil(t, wh)
	assert.Equal(t, "Bodega A", wh.Name)

	central, err := st.warehouses.GetByCode(ctx, "CENTRAL")
	require.NoError(t, err)
	require.NotNil(t, central, "la bodega por defecto se crea aunque no esté en la lista")

	item, err := st.items.GetByID(ctx, "item-y")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "item-y", item.Name)
}

func TestOpenMemory_BodegaPorDefectoEnLaListaNoSeDuplica(t *testing.T) {
	cfg := &config.Config{
		Storage:  config.StorageConfig{Driver: "memory", SeedWarehouses: []string{"CENTRAL=Central"}},
		Workflow: config.WorkflowConfig{DefaultWarehouseCode: "CENTRAL"},
	}
	st, err := openMemory(cfg, logger.New(logger.Config{Output: io.Discard}))
	require.NoError(t, err)

	list, err := st.warehouses.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CENTRAL", list[0].ID)
}

func TestSplitSeed(t *testing.T) {
	tests := []struct {
		entry, id, name string
	}{
		{"item-x=Guantes", "item-x", "Guantes"},
		{"item-x", "item-x", "item-x"},
		{"item-x=", "item-x", "item-x"},
		{" WH-A = Bodega A ", "WH-A", "Bodega A"},
	}
	for _, tt := range tests {
		id, name := splitSeed(tt.entry)
		assert.Equal(t, tt.id, id, tt.entry)
		assert.Equal(t, tt.name, name, tt.entry)
	}
}
