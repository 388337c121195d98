package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrims-stock/internal/application/directory"
	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/application/lowstock"
	"github.com/jhoicas/hrims-stock/internal/application/notification"
	"github.com/jhoicas/hrims-stock/internal/application/request"
	"github.com/jhoicas/hrims-stock/internal/application/transfer"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/hrims-stock/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/hrims-stock/pkg/jwt"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, notification.Event) {}

// buildAPI levanta el router completo sobre el almacén en memoria, sin bodega por defecto.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store, err := memory.NewStore()
	require.NoError(t, err)
	require.NoError(t, store.Warehouses().Save(&entity.Warehouse{ID: "wh-a", Code: "WH-A", Name: "Bodega A"}))
	require.NoError(t, store.Warehouses().Save(&entity.Warehouse{ID: "wh-b", Code: "WH-B", Name: "Bodega B"}))
	require.NoError(t, store.Items().Save(&entity.InventoryItem{ID: "item-x", Name: "Guantes"}))
	require.NoError(t, store.Departments().Upsert(ctx, &entity.DepartmentMapping{Department: "IT", WarehouseID: "wh-a"}))

	log := zerolog.Nop()
	pub := nopPublisher{}
	runner := memory.NewTxRunner(store)
	catalog := inventory.NewCatalog(store.Warehouses(), store.Items())
	monitor := lowstock.NewMonitor(lowstock.Config{Enabled: true, Recipient: notification.AdminRecipient}, pub, log)
	resolver := directory.NewResolver(store.Departments(), store.Warehouses(), "")

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		StockUC:    inventory.NewStockUseCase(runner, store.StockLevels(), catalog, monitor, log, inventory.Options{}),
		HistoryUC:  inventory.NewHistoryUseCase(store.StockTransactions()),
		RequestUC:  request.NewUseCase(runner, store.Requests(), resolver, catalog, pub, monitor, log, request.Options{}),
		TransferUC: transfer.NewUseCase(runner, store.Transfers(), store.StockLevels(), catalog, pub, monitor, log, transfer.Options{}),
		MappingUC:  directory.NewMappingUseCase(store.Departments(), store.Warehouses(), resolver),
		JWTSecret:  testJWTSecret,
		Log:        log,
	})
	return app
}

func bearer(t *testing.T, userID, department, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, department, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func receive(t *testing.T, app *fiber.App, warehouseID string, qty int64) {
	t.Helper()
	status := call(t, app, http.MethodPost, "/api/stock-transactions/receive", bearer(t, "boss", "IT", "admin"),
		dto.ReceiveInboundRequest{WarehouseID: warehouseID, Items: []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.NewFromInt(qty)}}}, nil)
	require.Equal(t, http.StatusCreated, status)
}

func TestRouter_EntradaYConsultaDeNivel(t *testing.T) {
	app := buildAPI(t)
	receive(t, app, "wh-a", 10)

	var level dto.StockLevelResponse
	status := call(t, app, http.MethodGet, "/api/stock-levels/wh-a/item-x", bearer(t, "u-1", "IT", "user"), nil, &level)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, level.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestRouter_EntradaRequiereRolDeGestion(t *testing.T) {
	app := buildAPI(t)
	status := call(t, app, http.MethodPost, "/api/stock-transactions/receive", bearer(t, "u-1", "IT", "user"),
		dto.ReceiveInboundRequest{WarehouseID: "wh-a", Items: []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.NewFromInt(1)}}}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRouter_SolicitudSinStockDevuelve409ConDetalle(t *testing.T) {
	app := buildAPI(t)
	receive(t, app, "wh-a", 3)

	var body map[string]any
	status := call(t, app, http.MethodPost, "/api/requests", bearer(t, "u-1", "IT", "user"),
		dto.SubmitRequestRequest{Kind: "withdraw", Items: []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.NewFromInt(5)}}}, &body)

	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "3", body["available"])
	assert.Equal(t, "5", body["requested"])
}

func TestRouter_SinBodegaResueltaDevuelve422(t *testing.T) {
	app := buildAPI(t)
	var body dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/requests", bearer(t, "u-2", "HR", "user"),
		dto.SubmitRequestRequest{Kind: "borrow", Items: []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.NewFromInt(1)}}}, &body)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "NO_WAREHOUSE", body.Code)
}

func TestRouter_ValidacionIndicaCampo(t *testing.T) {
	app := buildAPI(t)
	var body dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/requests", bearer(t, "u-1", "IT", "user"),
		dto.SubmitRequestRequest{Kind: "steal", Items: []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.NewFromInt(1)}}}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "kind", body.Field)
}

func TestRouter_FlujoDeAprobacionDeSolicitud(t *testing.T) {
	app := buildAPI(t)
	receive(t, app, "wh-a", 10)

	var created dto.RequestResponse
	status := call(t, app, http.MethodPost, "/api/requests", bearer(t, "u-1", "IT", "user"),
		dto.SubmitRequestRequest{Kind: "withdraw", Items: []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.NewFromInt(4)}}}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "wh-a", created.WarehouseID)
	assert.Equal(t, "pending", created.Status)

	path := "/api/requests/" + created.ID + "/status"
	decision := dto.UpdateRequestStatusRequest{Status: "approved", Message: "ok"}

	status = call(t, app, http.MethodPatch, path, bearer(t, "u-1", "IT", "user"), decision, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var decided dto.RequestResponse
	status = call(t, app, http.MethodPatch, path, bearer(t, "hr-1", "HR", "hr"), decision, &decided)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", decided.Status)
	assert.Equal(t, "hr-1", decided.DecidedBy)

	var again dto.ErrorResponse
	status = call(t, app, http.MethodPatch, path, bearer(t, "boss", "IT", "admin"), decision, &again)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", again.Code)
}

func TestRouter_UsuarioSoloVeSusSolicitudes(t *testing.T) {
	app := buildAPI(t)
	receive(t, app, "wh-a", 10)

	var mine dto.RequestResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/requests", bearer(t, "u-1", "IT", "user"),
		dto.SubmitRequestRequest{Kind: "borrow", Items: []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.NewFromInt(1)}}}, &mine))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/requests", bearer(t, "u-2", "IT", "user"),
		dto.SubmitRequestRequest{Kind: "borrow", Items: []dto.StockLineRequest{{ItemID: "item-x", Quantity: decimal.NewFromInt(1)}}}, nil))

	var list dto.RequestListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/requests?user_id=u-2", bearer(t, "u-1", "IT", "user"), nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "u-1", list.Items[0].UserID)

	status := call(t, app, http.MethodGet, "/api/requests/"+mine.ID, bearer(t, "u-2", "IT", "user"), nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var all dto.RequestListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/requests", bearer(t, "ap-1", "IT", "approver"), nil, &all))
	assert.Equal(t, 2, all.Page.Total)
}

func TestRouter_TrasladoAprobadoQuedaCompletado(t *testing.T) {
	app := buildAPI(t)
	receive(t, app, "wh-a", 10)

	var proposed dto.TransferResponse
	status := call(t, app, http.MethodPost, "/api/stock-transfers", bearer(t, "u-1", "IT", "user"),
		dto.ProposeTransferRequest{FromWarehouseID: "wh-a", ToWarehouseID: "wh-b", ItemID: "item-x", Quantity: decimal.NewFromInt(4)}, &proposed)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", proposed.Status)
	require.NotNil(t, proposed.SufficientStock)
	assert.True(t, *proposed.SufficientStock)

	var decided dto.TransferResponse
	status = call(t, app, http.MethodPatch, "/api/stock-transfers/"+proposed.ID, bearer(t, "ap-1", "IT", "approver"),
		dto.DecideTransferRequest{Status: "approved"}, &decided)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", decided.Status)

	var dest dto.StockLevelResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock-levels/wh-b/item-x", bearer(t, "u-1", "IT", "user"), nil, &dest))
	assert.True(t, dest.Quantity.Equal(decimal.NewFromInt(4)))

	var history dto.StockTransactionListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock-transactions/history/item-x", bearer(t, "u-1", "IT", "user"), nil, &history))
	require.Len(t, history.Items, 3)
}

func TestRouter_MapeosDeDepartamento(t *testing.T) {
	app := buildAPI(t)
	admin := bearer(t, "boss", "IT", "admin")

	status := call(t, app, http.MethodPut, "/api/departments/mappings", bearer(t, "u-1", "IT", "user"),
		dto.DepartmentMappingRequest{Department: "HR", WarehouseID: "wh-b"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/api/departments/mappings", admin,
		dto.DepartmentMappingRequest{Department: "HR", WarehouseID: "wh-b"}, nil))

	var wh dto.WarehouseResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/departments/my-warehouse", bearer(t, "u-2", "HR", "user"), nil, &wh))
	assert.Equal(t, "WH-B", wh.Code)

	require.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/departments/mappings/HR", admin, nil, nil))
	status = call(t, app, http.MethodGet, "/api/departments/my-warehouse", bearer(t, "u-2", "HR", "user"), nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}
