// Package transfer implementa el flujo de traslados entre bodegas.
// El ledger solo cambia al aprobar: origen, destino, dos registros y el estado en una unidad.
package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

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
	// StrictProposal rechaza la propuesta si el origen no alcanza en ese momento.
	// Sin ella la verificación solo se informa en la respuesta.
	StrictProposal bool
}

// UseCase propone, decide y consulta traslados.
type UseCase struct {
	txRunner  inventory.TxRunner
	transfers repository.StockTransferRepository
	levels    repository.StockLevelRepository
	catalog   *inventory.Catalog
	publisher notification.Publisher
	monitor   *lowstock.Monitor
	log       zerolog.Logger
	opts      Options
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	transfers repository.StockTransferRepository,
	levels repository.StockLevelRepository,
	catalog *inventory.Catalog,
	publisher notification.Publisher,
	monitor *lowstock.Monitor,
	log zerolog.Logger,
	opts Options,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		transfers: transfers,
		levels:    levels,
		catalog:   catalog,
		publisher: publisher,
		monitor:   monitor,
		log:       log,
		opts:      opts,
	}
}

// Propose crea un traslado pendiente tras una verificación de solo lectura en el origen.
// El stock del origen no se toca hasta Decide.
func (uc *UseCase) Propose(ctx context.Context, actor entity.Actor, in dto.ProposeTransferRequest) (*dto.TransferResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.FromWarehouseID == "" {
		return nil, domain.Invalid("from_warehouse_id", "requerido")
	}
	if in.ToWarehouseID == "" {
		return nil, domain.Invalid("to_warehouse_id", "requerido")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.Invalid("to_warehouse_id", "debe ser distinta de la bodega de origen")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if err := inventory.CheckScale("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if _, err := uc.catalog.RequireWarehouse(ctx, in.FromWarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.catalog.RequireWarehouse(ctx, in.ToWarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.catalog.RequireItem(ctx, in.ItemID); err != nil {
		return nil, err
	}

	level, err := uc.levels.Get(ctx, in.FromWarehouseID, in.ItemID)
	if err != nil {
		return nil, err
	}
	available := decimal.Zero
	if level != nil {
		available = level.Quantity
	}
	sufficient := !available.LessThan(in.Quantity)
	if !sufficient && uc.opts.StrictProposal {
		return nil, &domain.InsufficientStockError{
			WarehouseID: in.FromWarehouseID,
			ItemID:      in.ItemID,
			Available:   available,
			Requested:   in.Quantity,
		}
	}

	t := &entity.StockTransfer{
		ID:              uuid.New().String(),
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		ItemID:          in.ItemID,
		Quantity:        in.Quantity,
		Status:          entity.TransferPending,
		Note:            in.Note,
		RequestedBy:     actor.UserID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.transfers.Create(ctx, t); err != nil {
		return nil, err
	}
	out := toTransferResponse(t)
	out.SourceAvailable = &available
	out.SufficientStock = &sufficient
	return out, nil
}

// Decide aprueba o rechaza un traslado pendiente.
// Si el origen ya no alcanza, devuelve InsufficientStockError y el traslado sigue pendiente.
func (uc *UseCase) Decide(ctx context.Context, actor entity.Actor, transferID string, in dto.DecideTransferRequest) (*dto.TransferResponse, error) {
	if transferID == "" {
		return nil, domain.Invalid("id", "requerido")
	}
	ev, err := approval.DecisionEvent(in.Status)
	if err != nil {
		return nil, domain.Invalid("status", "debe ser approved o rejected")
	}

	var (
		decided *entity.StockTransfer
		source  *entity.StockLevel
		dest    *entity.StockLevel
	)
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		source, dest = nil, nil
		t, err := repos.Transfers.GetForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return &domain.NotFoundError{Entity: "stock_transfer", ID: transferID}
		}
		next, err := approval.NextTransferStatus(t.Status, ev)
		if err != nil {
			return &domain.InvalidStateTransitionError{Entity: "stock_transfer", ID: transferID, CurrentStatus: t.Status.String()}
		}
		t.ApprovedBy = actor.UserID

		if next == entity.TransferApproved {
			source, _, err = inventory.Post(ctx, repos, inventory.Movement{
				WarehouseID: t.FromWarehouseID,
				ItemID:      t.ItemID,
				Kind:        entity.TransactionTransferOut,
				Quantity:    t.Quantity,
				Note:        t.Note,
				ReferenceID: t.ID,
				UserID:      actor.UserID,
			})
			if err != nil {
				return err
			}
			dest, _, err = inventory.Post(ctx, repos, inventory.Movement{
				WarehouseID: t.ToWarehouseID,
				ItemID:      t.ItemID,
				Kind:        entity.TransactionTransferIn,
				Quantity:    t.Quantity,
				Note:        t.Note,
				ReferenceID: t.ID,
				UserID:      actor.UserID,
			})
			if err != nil {
				return err
			}
			if next, err = approval.NextTransferStatus(next, approval.EventComplete); err != nil {
				return err
			}
			now := time.Now().UTC()
			t.CompletedAt = &now
		}
		t.Status = next
		if err := repos.Transfers.Update(ctx, t); err != nil {
			return err
		}
		decided = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, notification.NewEvent(notification.KindTransferDecided, decided.RequestedBy, map[string]any{
		"transfer_id":       decided.ID,
		"status":            decided.Status.String(),
		"from_warehouse_id": decided.FromWarehouseID,
		"to_warehouse_id":   decided.ToWarehouseID,
		"item_id":           decided.ItemID,
		"quantity":          decided.Quantity.String(),
		"approved_by":       decided.ApprovedBy,
	}))
	if source != nil {
		uc.monitor.Observe(ctx, source)
	}
	if dest != nil {
		inventory.WarnAboveMax(uc.log, dest)
	}
	return toTransferResponse(decided), nil
}

// Get devuelve un traslado o NotFoundError.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &domain.NotFoundError{Entity: "stock_transfer", ID: id}
	}
	return toTransferResponse(t), nil
}

// List lista traslados por estado y bodega (origen o destino), del más reciente al más antiguo.
func (uc *UseCase) List(ctx context.Context, status, warehouseID string, page dto.PageRequest) (*dto.TransferListResponse, error) {
	st := entity.TransferStatus(status)
	switch st {
	case "", entity.TransferPending, entity.TransferApproved, entity.TransferCompleted, entity.TransferRejected:
	default:
		return nil, domain.Invalid("status", "estado desconocido")
	}
	p := repository.Page{Limit: page.Limit, Offset: page.Offset}.Normalize()
	list, total, err := uc.transfers.List(ctx, repository.TransferFilter{Status: st, WarehouseID: warehouseID, Page: p})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	}, nil
}

func (uc *UseCase) notify(ctx context.Context, ev notification.Event) {
	defer func() {
		if p := recover(); p != nil {
			uc.log.Error().Interface("panic", p).Str("kind", string(ev.Kind)).Msg("notificación descartada")
		}
	}()
	uc.publisher.Publish(ctx, ev)
}

func toTransferResponse(t *entity.StockTransfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:              t.ID,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		ItemID:          t.ItemID,
		Quantity:        t.Quantity,
		Status:          t.Status.String(),
		Note:            t.Note,
		RequestedBy:     t.RequestedBy,
		ApprovedBy:      t.ApprovedBy,
		CreatedAt:       t.CreatedAt,
		CompletedAt:     t.CompletedAt,
	}
}
