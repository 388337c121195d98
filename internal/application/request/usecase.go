// Package request implementa el flujo de solicitudes de retiro, préstamo y devolución.
// El stock se descuenta al enviar la solicitud; la aprobación solo cambia el estado.
package request

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/application/lowstock"
	"github.com/jhoicas/hrims-stock/internal/application/notification"
	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/approval"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

// Options políticas del flujo inyectadas desde la configuración.
type Options struct {
	// RestockOnReject devuelve al stock las cantidades de una solicitud rechazada.
	RestockOnReject bool
}

type warehouseResolver interface {
	Resolve(ctx context.Context, department string) (*entity.Warehouse, error)
}

// UseCase orquesta el envío y la decisión de solicitudes.
type UseCase struct {
	txRunner  inventory.TxRunner
	requests  repository.RequestRepository
	resolver  warehouseResolver
	catalog   *inventory.Catalog
	publisher notification.Publisher
	monitor   *lowstock.Monitor
	log       zerolog.Logger
	opts      Options
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	requests repository.RequestRepository,
	resolver warehouseResolver,
	catalog *inventory.Catalog,
	publisher notification.Publisher,
	monitor *lowstock.Monitor,
	log zerolog.Logger,
	opts Options,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		requests:  requests,
		resolver:  resolver,
		catalog:   catalog,
		publisher: publisher,
		monitor:   monitor,
		log:       log,
		opts:      opts,
	}
}

// Submit crea la solicitud y descuenta todas sus líneas en una sola transacción.
// Si alguna línea no tiene stock suficiente no se persiste nada.
func (uc *UseCase) Submit(ctx context.Context, actor entity.Actor, in dto.SubmitRequestRequest) (*dto.RequestResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	kind := entity.RequestKind(in.Kind)
	if !kind.Valid() {
		return nil, domain.Invalid("kind", "debe ser withdraw, borrow o return")
	}
	lines, err := inventory.NormalizeLines(in.Items)
	if err != nil {
		return nil, err
	}

	var warehouse *entity.Warehouse
	if in.WarehouseID != "" {
		warehouse, err = uc.catalog.RequireWarehouse(ctx, in.WarehouseID)
	} else {
		warehouse, err = uc.resolver.Resolve(ctx, actor.Department)
	}
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if _, err := uc.catalog.RequireItem(ctx, l.ItemID); err != nil {
			return nil, err
		}
	}

	req := &entity.Request{
		ID:          uuid.New().String(),
		UserID:      actor.UserID,
		WarehouseID: warehouse.ID,
		Kind:        kind,
		Status:      entity.RequestPending,
		CreatedAt:   time.Now().UTC(),
	}
	for _, l := range lines {
		req.Items = append(req.Items, entity.RequestItem{RequestID: req.ID, ItemID: l.ItemID, Quantity: l.Quantity})
	}

	var levels []*entity.StockLevel
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		levels = levels[:0]
		if err := repos.Requests.Create(ctx, req); err != nil {
			return err
		}
		for _, l := range lines {
			level, _, err := inventory.Post(ctx, repos, inventory.Movement{
				WarehouseID: req.WarehouseID,
				ItemID:      l.ItemID,
				Kind:        entity.TransactionOutbound,
				Quantity:    l.Quantity,
				Note:        fmt.Sprintf("solicitud %s", kind),
				ReferenceID: req.ID,
				UserID:      actor.UserID,
			})
			if err != nil {
				return err
			}
			levels = append(levels, level)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payload := requestPayload(req)
	uc.notify(ctx, notification.NewEvent(notification.KindRequestCreated, req.UserID, payload))
	uc.notify(ctx, notification.NewEvent(notification.KindRequestCreated, notification.AdminRecipient, payload))
	for _, l := range levels {
		uc.monitor.Observe(ctx, l)
	}
	return toRequestResponse(req), nil
}

// UpdateStatus aprueba o rechaza una solicitud pendiente.
// Una solicitud ya decidida devuelve InvalidStateTransitionError.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor entity.Actor, requestID string, in dto.UpdateRequestStatusRequest) (*dto.RequestResponse, error) {
	if requestID == "" {
		return nil, domain.Invalid("id", "requerido")
	}
	ev, err := approval.DecisionEvent(in.Status)
	if err != nil {
		return nil, domain.Invalid("status", "debe ser approved o rejected")
	}

	var (
		updated *entity.Request
		levels  []*entity.StockLevel
	)
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		levels = levels[:0]
		req, err := repos.Requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return &domain.NotFoundError{Entity: "request", ID: requestID}
		}
		next, err := approval.NextRequestStatus(req.Status, ev)
		if err != nil {
			return &domain.InvalidStateTransitionError{Entity: "request", ID: requestID, CurrentStatus: req.Status.String()}
		}
		now := time.Now().UTC()
		req.Status = next
		req.Message = in.Message
		req.DecidedBy = actor.UserID
		req.DecidedAt = &now
		if err := repos.Requests.UpdateStatus(ctx, req); err != nil {
			return err
		}
		if next == entity.RequestRejected && uc.opts.RestockOnReject {
			for _, it := range req.Items {
				level, _, err := inventory.Post(ctx, repos, inventory.Movement{
					WarehouseID: req.WarehouseID,
					ItemID:      it.ItemID,
					Kind:        entity.TransactionInbound,
					Quantity:    it.Quantity,
					Note:        "reintegro por solicitud rechazada",
					ReferenceID: req.ID,
					UserID:      actor.UserID,
				})
				if err != nil {
					return err
				}
				levels = append(levels, level)
			}
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, l := range levels {
		inventory.WarnAboveMax(uc.log, l)
	}
	payload := requestPayload(updated)
	payload["message"] = updated.Message
	uc.notify(ctx, notification.NewEvent(notification.KindRequestStatusChanged, updated.UserID, payload))
	return toRequestResponse(updated), nil
}

// Get devuelve una solicitud o NotFoundError.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.RequestResponse, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &domain.NotFoundError{Entity: "request", ID: id}
	}
	return toRequestResponse(req), nil
}

// List lista solicitudes, de la más reciente a la más antigua.
func (uc *UseCase) List(ctx context.Context, userID, warehouseID, status string, page dto.PageRequest) (*dto.RequestListResponse, error) {
	st := entity.RequestStatus(status)
	if status != "" && st != entity.RequestPending && !st.Terminal() {
		return nil, domain.Invalid("status", "estado desconocido")
	}
	p := repository.Page{Limit: page.Limit, Offset: page.Offset}.Normalize()
	list, total, err := uc.requests.List(ctx, repository.RequestFilter{
		UserID:      userID,
		WarehouseID: warehouseID,
		Status:      st,
		Page:        p,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.RequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRequestResponse(r))
	}
	return &dto.RequestListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	}, nil
}

// notify publica sin dejar que un fallo del canal llegue al llamador.
func (uc *UseCase) notify(ctx context.Context, ev notification.Event) {
	defer func() {
		if p := recover(); p != nil {
			uc.log.Error().Interface("panic", p).Str("kind", string(ev.Kind)).Msg("notificación descartada")
		}
	}()
	uc.publisher.Publish(ctx, ev)
}

func requestPayload(r *entity.Request) map[string]any {
	lines := make([]map[string]string, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, map[string]string{"item_id": it.ItemID, "quantity": it.Quantity.String()})
	}
	return map[string]any{
		"request_id":   r.ID,
		"user_id":      r.UserID,
		"warehouse_id": r.WarehouseID,
		"kind":         string(r.Kind),
		"status":       r.Status.String(),
		"items":        lines,
	}
}

func toRequestResponse(r *entity.Request) *dto.RequestResponse {
	items := make([]dto.RequestItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.RequestItemResponse{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	return &dto.RequestResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		WarehouseID: r.WarehouseID,
		Kind:        string(r.Kind),
		Status:      r.Status.String(),
		Message:     r.Message,
		DecidedBy:   r.DecidedBy,
		DecidedAt:   r.DecidedAt,
		CreatedAt:   r.CreatedAt,
		Items:       items,
	}
}
