package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/application/transfer"
)

// TransferHandler traslados entre bodegas.
type TransferHandler struct {
	uc  *transfer.UseCase
	log zerolog.Logger
}

func NewTransferHandler(uc *transfer.UseCase, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, log: log}
}

// Propose POST /api/stock-transfers. El traslado queda pending; no mueve stock.
func (h *TransferHandler) Propose(c *fiber.Ctx) error {
	var in dto.ProposeTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Propose(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *TransferHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("status"), c.Query("warehouse_id"), pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Decide PATCH /api/stock-transfers/:id (superadmin, admin, approver)
func (h *TransferHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecideTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Decide(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
