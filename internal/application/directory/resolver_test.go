package directory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrims-stock/internal/application/directory"
	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

type mapLookup map[string]string

func (m mapLookup) FindWarehouseID(_ context.Context, department string) (string, bool, error) {
	id, ok := m[department]
	return id, ok, nil
}

type failingLookup struct{}

func (failingLookup) FindWarehouseID(context.Context, string) (string, bool, error) {
	return "", false, errors.New("directorio caído")
}

type warehouses []*entity.Warehouse

func (ws warehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	for _, w := range ws {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (ws warehouses) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	for _, w := range ws {
		if w.Code == code {
			return w, nil
		}
	}
	return nil, nil
}

var testWarehouses = warehouses{
	{ID: "wh-it", Code: "WH-IT", Name: "Bodega TI"},
	{ID: "wh-central", Code: "WH-CENTRAL", Name: "Bodega Central"},
}

func TestResolver_UsaElMapeo(t *testing.T) {
	r := directory.NewResolver(mapLookup{"IT": "wh-it"}, testWarehouses, "WH-CENTRAL")
	w, err := r.Resolve(context.Background(), "IT")
	require.NoError(t, err)
	assert.Equal(t, "wh-it", w.ID)
}

func TestResolver_SinMapeoUsaDefault(t *testing.T) {
	r := directory.NewResolver(mapLookup{}, testWarehouses, "WH-CENTRAL")
	w, err := r.Resolve(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, "wh-central", w.ID)
}

func TestResolver_MapeoABodegaInexistenteUsaDefault(t *testing.T) {
	r := directory.NewResolver(mapLookup{"IT": "wh-borrada"}, testWarehouses, "WH-CENTRAL")
	w, err := r.Resolve(context.Background(), "IT")
	require.NoError(t, err)
	assert.Equal(t, "wh-central", w.ID)
}

func TestResolver_SinMapeoNiDefault(t *testing.T) {
	r := directory.NewResolver(mapLookup{}, testWarehouses, "WH-NO-EXISTE")
	_, err := r.Resolve(context.Background(), "HR")
	require.Error(t, err)

	var nwr *domain.NoWarehouseResolvedError
	require.True(t, errors.As(err, &nwr))
	assert.Equal(t, "HR", nwr.Department)
	assert.ErrorIs(t, err, domain.ErrNoWarehouse)
}

func TestResolver_ErrorDelDirectorioSePropaga(t *testing.T) {
	r := directory.NewResolver(failingLookup{}, testWarehouses, "WH-CENTRAL")
	_, err := r.Resolve(context.Background(), "IT")
	assert.EqualError(t, err, "directorio caído")
}
