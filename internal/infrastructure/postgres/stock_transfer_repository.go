package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

const transferColumns = `id, from_warehouse_id, to_warehouse_id, item_id, quantity, status, note, requested_by, approved_by, created_at, completed_at`

// StockTransferRepo traslados entre bodegas sobre PostgreSQL.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var (
		t           entity.StockTransfer
		status      string
		completedAt *time.Time
	)
	if err := row.Scan(&t.ID, &t.FromWarehouseID, &t.ToWarehouseID, &t.ItemID, &t.Quantity, &status,
		&t.Note, &t.RequestedBy, &t.ApprovedBy, &t.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	t.CompletedAt = completedAt
	return &t, nil
}

func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.FromWarehouseID, t.ToWarehouseID, t.ItemID, t.Quantity, t.Status.String(),
		t.Note, t.RequestedBy, t.ApprovedBy, t.CreatedAt, t.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert stock transfer: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	return nil
}

func (r *StockTransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1`, id)
}

// GetForUpdate bloquea el traslado: decisiones concurrentes sobre el mismo id se serializan.
func (r *StockTransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockTransferRepo) get(ctx context.Context, query, id string) (*entity.StockTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return t, nil
}

func (r *StockTransferRepo) Update(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		UPDATE stock_transfers SET status = $2, approved_by = $3, completed_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, t.ID, t.Status.String(), t.ApprovedBy, t.CompletedAt)
	if err != nil {
		return fmt.Errorf("update stock transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "stock_transfer", ID: t.ID}
	}
	return nil
}

func (r *StockTransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, int, error) {
	p := f.Page.Normalize()
	base := dialect.From("stock_transfers")
	if f.Status != "" {
		base = base.Where(goqu.C("status").Eq(f.Status.String()))
	}
	if f.WarehouseID != "" {
		base = base.Where(goqu.Or(
			goqu.C("from_warehouse_id").Eq(f.WarehouseID),
			goqu.C("to_warehouse_id").Eq(f.WarehouseID),
		))
	}
	pageDS := base.
		Select("id", "from_warehouse_id", "to_warehouse_id", "item_id", "quantity", "status",
			"note", "requested_by", "approved_by", "created_at", "completed_at").
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(p.Limit)).
		Offset(uint(p.Offset))

	rows, total, err := countAndList(ctx, r.q, base, pageDS)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}
