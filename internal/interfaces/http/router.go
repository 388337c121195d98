package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/directory"
	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/application/request"
	"github.com/jhoicas/hrims-stock/internal/application/transfer"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC    *inventory.StockUseCase
	HistoryUC  *inventory.HistoryUseCase
	RequestUC  *request.UseCase
	TransferUC *transfer.UseCase
	MappingUC  *directory.MappingUseCase
	JWTSecret  string
	Log        zerolog.Logger
}

var (
	approvers     = []string{entity.RoleSuperadmin, entity.RoleAdmin, entity.RoleApprover}
	requestStaff  = []string{entity.RoleSuperadmin, entity.RoleAdmin, entity.RoleApprover, entity.RoleHR}
	administrator = []string{entity.RoleSuperadmin, entity.RoleAdmin}
)

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	requestHandler := NewRequestHandler(deps.RequestUC, deps.Log)
	requests := api.Group("/requests")
	requests.Post("/", requestHandler.Submit)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Patch("/:id/status", RequireRole(requestStaff...), requestHandler.UpdateStatus)

	transferHandler := NewTransferHandler(deps.TransferUC, deps.Log)
	transfers := api.Group("/stock-transfers")
	transfers.Post("/", transferHandler.Propose)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Patch("/:id", RequireRole(approvers...), transferHandler.Decide)

	stockHandler := NewStockHandler(deps.StockUC, deps.HistoryUC, deps.Log)
	txs := api.Group("/stock-transactions")
	txs.Post("/receive", RequireRole(approvers...), stockHandler.Receive)
	txs.Get("/history/:itemId", stockHandler.HistoryByItem)
	txs.Get("/warehouse/:warehouseId", stockHandler.HistoryByWarehouse)

	levels := api.Group("/stock-levels")
	levels.Get("/", stockHandler.ListLevels)
	levels.Get("/:warehouseId/:itemId", stockHandler.GetLevel)
	levels.Patch("/:warehouseId/:itemId/adjust", RequireRole(approvers...), stockHandler.Adjust)
	levels.Patch("/:warehouseId/:itemId/limits", RequireRole(approvers...), stockHandler.SetLimits)

	departmentHandler := NewDepartmentHandler(deps.MappingUC, deps.Log)
	departments := api.Group("/departments")
	departments.Get("/my-warehouse", departmentHandler.MyWarehouse)
	departments.Get("/mappings", RequireRole(administrator...), departmentHandler.List)
	departments.Put("/mappings", RequireRole(administrator...), departmentHandler.Upsert)
	departments.Delete("/mappings/:department", RequireRole(administrator...), departmentHandler.Delete)
}
