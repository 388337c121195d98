// Package memory implementa los repositorios y el TxRunner sobre go-memdb.
// Las transacciones de escritura de go-memdb son exclusivas: cada Run se serializa
// con los demás y Abort descarta todos sus cambios.
package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

const (
	tableLevels       = "stock_levels"
	tableTransactions = "stock_transactions"
	tableRequests     = "requests"
	tableTransfers    = "stock_transfers"
	tableWarehouses   = "warehouses"
	tableItems        = "items"
	tableDepartments  = "department_mappings"
)

func stringIndex(name, field string, unique bool) *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:         name,
		Unique:       unique,
		AllowMissing: !unique,
		Indexer:      &memdb.StringFieldIndex{Field: field},
	}
}

func pairIndex(name string, unique bool) *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:   name,
		Unique: unique,
		Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
			&memdb.StringFieldIndex{Field: "WarehouseID"},
			&memdb.StringFieldIndex{Field: "ItemID"},
		}},
	}
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{Tables: map[string]*memdb.TableSchema{
		tableLevels: {
			Name: tableLevels,
			Indexes: map[string]*memdb.IndexSchema{
				"id":        pairIndex("id", true),
				"warehouse": stringIndex("warehouse", "WarehouseID", false),
				"item":      stringIndex("item", "ItemID", false),
			},
		},
		tableTransactions: {
			Name: tableTransactions,
			Indexes: map[string]*memdb.IndexSchema{
				"id":        stringIndex("id", "ID", true),
				"warehouse": stringIndex("warehouse", "WarehouseID", false),
				"item":      stringIndex("item", "ItemID", false),
				"pair":      pairIndex("pair", false),
			},
		},
		tableRequests: {
			Name: tableRequests,
			Indexes: map[string]*memdb.IndexSchema{
				"id": stringIndex("id", "ID", true),
			},
		},
		tableTransfers: {
			Name: tableTransfers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": stringIndex("id", "ID", true),
			},
		},
		tableWarehouses: {
			Name: tableWarehouses,
			Indexes: map[string]*memdb.IndexSchema{
				"id":   stringIndex("id", "ID", true),
				"code": stringIndex("code", "Code", false),
			},
		},
		tableItems: {
			Name: tableItems,
			Indexes: map[string]*memdb.IndexSchema{
				"id": stringIndex("id", "ID", true),
			},
		},
		tableDepartments: {
			Name: tableDepartments,
			Indexes: map[string]*memdb.IndexSchema{
				"id": stringIndex("id", "Department", true),
			},
		},
	}}
}

// Store base de datos en memoria compartida por todos los repositorios.
type Store struct {
	db  *memdb.MemDB
	seq atomic.Uint64
}

// NewStore crea una base vacía.
func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("crear memdb: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) nextSeq() uint64 { return s.seq.Add(1) }

// session decide si un repositorio opera sobre la transacción de un Run o abre la suya.
type session struct {
	store *Store
	txn   *memdb.Txn
}

func (s session) read() (*memdb.Txn, func()) {
	if s.txn != nil {
		return s.txn, func() {}
	}
	txn := s.store.db.Txn(false)
	return txn, txn.Abort
}

func (s session) write(fn func(txn *memdb.Txn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	txn := s.store.db.Txn(true)
	defer txn.Abort()
	if err := fn(txn); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *Store) root() session { return session{store: s} }

// StockLevels repositorio de niveles fuera de transacción.
func (s *Store) StockLevels() *StockLevelRepo { return &StockLevelRepo{s: s.root()} }

// StockTransactions repositorio del log fuera de transacción.
func (s *Store) StockTransactions() *StockTransactionRepo {
	return &StockTransactionRepo{s: s.root()}
}

// Requests repositorio de solicitudes fuera de transacción.
func (s *Store) Requests() *RequestRepo { return &RequestRepo{s: s.root()} }

// Transfers repositorio de traslados fuera de transacción.
func (s *Store) Transfers() *StockTransferRepo { return &StockTransferRepo{s: s.root()} }

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s.root()} }

// Items repositorio de ítems.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s.root()} }

// Departments repositorio de mapeos departamento → bodega.
func (s *Store) Departments() *DepartmentRepo { return &DepartmentRepo{s: s.root()} }

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción de escritura de memdb.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run abre la transacción, ejecuta fn con repos atados a ella y confirma solo si fn no falla.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	s := session{store: r.store, txn: txn}
	repos := inventory.TxRepos{
		Levels:       &StockLevelRepo{s: s},
		Transactions: &StockTransactionRepo{s: s},
		Requests:     &RequestRepo{s: s},
		Transfers:    &StockTransferRepo{s: s},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func paginate[T any](list []T, p repository.Page) []T {
	p = p.Normalize()
	if p.Offset >= len(list) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[p.Offset:end]
}
