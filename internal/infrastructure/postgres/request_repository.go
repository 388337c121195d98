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

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestColumns = `id, user_id, warehouse_id, kind, status, message, decided_by, decided_at, created_at`

// RequestRepo solicitudes y sus líneas sobre PostgreSQL.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Acepta pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var (
		req          entity.Request
		kind, status string
		decidedAt    *time.Time
	)
	if err := row.Scan(&req.ID, &req.UserID, &req.WarehouseID, &kind, &status,
		&req.Message, &req.DecidedBy, &decidedAt, &req.CreatedAt); err != nil {
		return nil, err
	}
	req.Kind = entity.RequestKind(kind)
	req.Status = entity.RequestStatus(status)
	req.DecidedAt = decidedAt
	return &req, nil
}

// Create inserta la cabecera y las líneas; debe ejecutarse dentro de la tx del envío.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.UserID, req.WarehouseID, string(req.Kind), req.Status.String(),
		req.Message, req.DecidedBy, req.DecidedAt, req.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert request: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert request: %w", err)
	}
	if len(req.Items) == 0 {
		return nil
	}
	rows := make([]any, 0, len(req.Items))
	for _, it := range req.Items {
		rows = append(rows, goqu.Record{"request_id": req.ID, "item_id": it.ItemID, "quantity": it.Quantity})
	}
	itemsSQL, args, err := dialect.Insert("request_items").Rows(rows...).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build request items insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, itemsSQL, args...); err != nil {
		return fmt.Errorf("insert request items: %w", err)
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)
}

func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *RequestRepo) get(ctx context.Context, query, id string) (*entity.Request, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	items, err := r.loadItems(ctx, []string{req.ID})
	if err != nil {
		return nil, err
	}
	req.Items = items[req.ID]
	return req, nil
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, req *entity.Request) error {
	query := `
		UPDATE requests SET status = $2, message = $3, decided_by = $4, decided_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, req.ID, req.Status.String(), req.Message, req.DecidedBy, req.DecidedAt)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "request", ID: req.ID}
	}
	return nil
}

func (r *RequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.Request, int, error) {
	p := f.Page.Normalize()
	base := dialect.From("requests")
	if f.UserID != "" {
		base = base.Where(goqu.C("user_id").Eq(f.UserID))
	}
	if f.WarehouseID != "" {
		base = base.Where(goqu.C("warehouse_id").Eq(f.WarehouseID))
	}
	if f.Status != "" {
		base = base.Where(goqu.C("status").Eq(f.Status.String()))
	}
	pageDS := base.
		Select("id", "user_id", "warehouse_id", "kind", "status", "message", "decided_by", "decided_at", "created_at").
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(p.Limit)).
		Offset(uint(p.Offset))

	rows, total, err := countAndList(ctx, r.q, base, pageDS)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	var (
		list []*entity.Request
		ids  []string
	)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, req)
		ids = append(ids, req.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, req := range list {
		req.Items = items[req.ID]
	}
	return list, total, nil
}

func (r *RequestRepo) loadItems(ctx context.Context, ids []string) (map[string][]entity.RequestItem, error) {
	out := make(map[string][]entity.RequestItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `
		SELECT request_id, item_id, quantity FROM request_items
		WHERE request_id = ANY($1) ORDER BY request_id, item_id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list request items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.RequestItem
		if err := rows.Scan(&it.RequestID, &it.ItemID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan request item: %w", err)
		}
		out[it.RequestID] = append(out[it.RequestID], it)
	}
	return out, rows.Err()
}
