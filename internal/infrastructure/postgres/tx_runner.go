package postgres

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

const (
	defaultMaxAttempts = 4
	defaultBaseDelay   = 20 * time.Millisecond
	jitterFactor       = 0.3
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Repite la transacción completa ante serialization_failure o deadlock.
type TxRunner struct {
	pool        *pgxpool.Pool
	log         zerolog.Logger
	maxAttempts int
	baseDelay   time.Duration
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, log: log, maxAttempts: defaultMaxAttempts, baseDelay: defaultBaseDelay}
}

// Run ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// fn puede ejecutarse más de una vez, por lo que no debe tener efectos fuera de la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	var err error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := r.baseDelay * time.Duration(1<<(attempt-1))
			delay += time.Duration(rand.Float64() * float64(delay) * jitterFactor) //nolint:gosec // jitter
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("conflicto de concurrencia, reintentando transacción")
	}
	return fmt.Errorf("transacción abortada tras %d intentos: %w", r.maxAttempts, err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.TxRepos{
		Levels:       NewStockLevelRepository(tx),
		Transactions: NewStockTransactionRepository(tx),
		Requests:     NewRequestRepository(tx),
		Transfers:    NewStockTransferRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
