package memory

import (
	"context"
	"fmt"
	"sort"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo solicitudes en memoria (las líneas viajan dentro de la solicitud).
type RequestRepo struct {
	s session
}

func cloneRequest(r *entity.Request) *entity.Request {
	c := *r
	c.Items = append([]entity.RequestItem(nil), r.Items...)
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		c.DecidedAt = &t
	}
	return &c
}

func (r *RequestRepo) Create(_ context.Context, req *entity.Request) error {
	return r.s.write(func(txn *memdb.Txn) error {
		existing, err := txn.First(tableRequests, "id", req.ID)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("create request: %w", domain.ErrConflict)
		}
		if err := txn.Insert(tableRequests, cloneRequest(req)); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return nil
	})
}

func (r *RequestRepo) GetByID(_ context.Context, id string) (*entity.Request, error) {
	txn, done := r.s.read()
	defer done()
	raw, err := txn.First(tableRequests, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return cloneRequest(raw.(*entity.Request)), nil
}

// GetForUpdate equivale a GetByID: dentro de Run la transacción ya es exclusiva.
func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *RequestRepo) UpdateStatus(_ context.Context, req *entity.Request) error {
	return r.s.write(func(txn *memdb.Txn) error {
		raw, err := txn.First(tableRequests, "id", req.ID)
		if err != nil {
			return fmt.Errorf("update request: %w", err)
		}
		if raw == nil {
			return &domain.NotFoundError{Entity: "request", ID: req.ID}
		}
		next := cloneRequest(raw.(*entity.Request))
		next.Status = req.Status
		next.Message = req.Message
		next.DecidedBy = req.DecidedBy
		next.DecidedAt = req.DecidedAt
		if err := txn.Insert(tableRequests, next); err != nil {
			return fmt.Errorf("update request: %w", err)
		}
		return nil
	})
}

func (r *RequestRepo) List(_ context.Context, f repository.RequestFilter) ([]*entity.Request, int, error) {
	txn, done := r.s.read()
	defer done()
	it, err := txn.Get(tableRequests, "id")
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	var list []*entity.Request
	for raw := it.Next(); raw != nil; raw = it.Next() {
		req := raw.(*entity.Request)
		if f.UserID != "" && req.UserID != f.UserID {
			continue
		}
		if f.WarehouseID != "" && req.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		list = append(list, cloneRequest(req))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return paginate(list, f.Page), len(list), nil
}
