package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/application/inventory"
)

// StockHandler entradas, historial y niveles de stock (protegido).
type StockHandler struct {
	stock   *inventory.StockUseCase
	history *inventory.HistoryUseCase
	log     zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, history *inventory.HistoryUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{stock: stock, history: history, log: log}
}

// Receive POST /api/stock-transactions/receive. Todas las líneas se aplican o ninguna.
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.ReceiveInbound(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// HistoryByItem GET /api/stock-transactions/history/:itemId
func (h *StockHandler) HistoryByItem(c *fiber.Ctx) error {
	out, err := h.history.ListByItem(c.Context(), c.Params("itemId"), pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// HistoryByWarehouse GET /api/stock-transactions/warehouse/:warehouseId
func (h *StockHandler) HistoryByWarehouse(c *fiber.Ctx) error {
	out, err := h.history.ListByWarehouse(c.Context(), c.Params("warehouseId"), pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListLevels GET /api/stock-levels?warehouse_id=&item_id=&low_only=true
func (h *StockHandler) ListLevels(c *fiber.Ctx) error {
	out, err := h.stock.ListLevels(c.Context(), c.Query("warehouse_id"), c.Query("item_id"), c.QueryBool("low_only", false), pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *StockHandler) GetLevel(c *fiber.Ctx) error {
	out, err := h.stock.GetLevel(c.Context(), c.Params("warehouseId"), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Adjust PATCH /api/stock-levels/:warehouseId/:itemId/adjust
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.AdjustStock(c.Context(), GetUserID(c), c.Params("warehouseId"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetLimits PATCH /api/stock-levels/:warehouseId/:itemId/limits
func (h *StockHandler) SetLimits(c *fiber.Ctx) error {
	var in dto.StockLimitsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.SetLimits(c.Context(), c.Params("warehouseId"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
