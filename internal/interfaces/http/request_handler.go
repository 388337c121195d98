package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/application/request"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
)

// RequestHandler solicitudes de retiro, préstamo y devolución.
type RequestHandler struct {
	uc  *request.UseCase
	log zerolog.Logger
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *request.UseCase, log zerolog.Logger) *RequestHandler {
	return &RequestHandler{uc: uc, log: log}
}

// Submit POST /api/requests. Descuenta stock al crear; 409 si alguna línea no alcanza.
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Submit(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/requests?status=&warehouse_id=&limit=&offset=
// Un usuario sin rol de gestión solo ve sus propias solicitudes.
func (h *RequestHandler) List(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if !entity.IsStaff(GetRole(c)) {
		userID = GetUserID(c)
	}
	out, err := h.uc.List(c.Context(), userID, c.Query("warehouse_id"), c.Query("status"), pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/requests/:id
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out.UserID != GetUserID(c) && !entity.IsStaff(GetRole(c)) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la solicitud pertenece a otro usuario"})
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/requests/:id/status (superadmin, admin, approver, hr)
func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateRequestStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
