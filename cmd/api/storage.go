package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/memory"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/hrims-stock/pkg/config"
	"github.com/jhoicas/hrims-stock/pkg/logger"
)

// storage repositorios del backend elegido en STORAGE_DRIVER.
type storage struct {
	runner       inventory.TxRunner
	levels       repository.StockLevelRepository
	transactions repository.StockTransactionRepository
	requests     repository.RequestRepository
	transfers    repository.StockTransferRepository
	warehouses   repository.WarehouseRepository
	items        repository.ItemRepository
	departments  repository.DepartmentRepository
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return openMemory(cfg, log)
	default:
		return openPostgres(ctx, cfg, log)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &storage{
		runner:       postgres.NewTxRunner(pool, log.Component("postgres")),
		levels:       postgres.NewStockLevelRepository(pool),
		transactions: postgres.NewStockTransactionRepository(pool),
		requests:     postgres.NewRequestRepository(pool),
		transfers:    postgres.NewStockTransferRepository(pool),
		warehouses:   postgres.NewWarehouseRepository(pool),
		items:        postgres.NewItemRepository(pool),
		departments:  postgres.NewDepartmentRepository(pool),
		close:        pool.Close,
	}, nil
}

// openMemory almacén volátil solo para desarrollo y pruebas locales. El catálogo sale de
// STORAGE_SEED_WAREHOUSES / STORAGE_SEED_ITEMS más la bodega por defecto.
func openMemory(cfg *config.Config, log *logger.Logger) (*storage, error) {
	store, err := memory.NewStore()
	if err != nil {
		return nil, err
	}
	if err := seedMemory(store, cfg); err != nil {
		return nil, err
	}
	log.Warn().
		Int("warehouses", len(cfg.Storage.SeedWarehouses)).
		Int("items", len(cfg.Storage.SeedItems)).
		Msg("almacenamiento en memoria, solo para desarrollo: los datos se pierden al reiniciar y stockctl no aplica")
	return &storage{
		runner:       memory.NewTxRunner(store),
		levels:       store.StockLevels(),
		transactions: store.StockTransactions(),
		requests:     store.Requests(),
		transfers:    store.Transfers(),
		warehouses:   store.Warehouses(),
		items:        store.Items(),
		departments:  store.Departments(),
		close:        func() {},
	}, nil
}

func seedMemory(store *memory.Store, cfg *config.Config) error {
	defaultCode := cfg.Workflow.DefaultWarehouseCode
	seededDefault := false
	for _, entry := range cfg.Storage.SeedWarehouses {
		id, name := splitSeed(entry)
		if err := store.Warehouses().Save(&entity.Warehouse{ID: id, Code: id, Name: name}); err != nil {
			return fmt.Errorf("sembrar bodega %q: %w", id, err)
		}
		seededDefault = seededDefault || id == defaultCode
	}
	if defaultCode != "" && !seededDefault {
		if err := store.Warehouses().Save(&entity.Warehouse{ID: uuid.New().String(), Code: defaultCode, Name: defaultCode}); err != nil {
			return fmt.Errorf("sembrar bodega por defecto: %w", err)
		}
	}
	for _, entry := range cfg.Storage.SeedItems {
		id, name := splitSeed(entry)
		if err := store.Items().Save(&entity.InventoryItem{ID: id, Name: name}); err != nil {
			return fmt.Errorf("sembrar ítem %q: %w", id, err)
		}
	}
	return nil
}

// splitSeed "id=Nombre" -> (id, Nombre); sin "=" el nombre es el id.
func splitSeed(entry string) (id, name string) {
	id, name, ok := strings.Cut(entry, "=")
	id = strings.TrimSpace(id)
	if name = strings.TrimSpace(name); !ok || name == "" {
		name = id
	}
	return id, name
}
