package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/directory"
	"github.com/jhoicas/hrims-stock/internal/application/dto"
)

// DepartmentHandler mapeos departamento → bodega.
type DepartmentHandler struct {
	uc  *directory.MappingUseCase
	log zerolog.Logger
}

func NewDepartmentHandler(uc *directory.MappingUseCase, log zerolog.Logger) *DepartmentHandler {
	return &DepartmentHandler{uc: uc, log: log}
}

func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "mappings": out})
}

// Upsert PUT /api/departments/mappings
func (h *DepartmentHandler) Upsert(c *fiber.Ctx) error {
	var in dto.DepartmentMappingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Upsert(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("department")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MyWarehouse GET /api/departments/my-warehouse: bodega efectiva del departamento del token.
func (h *DepartmentHandler) MyWarehouse(c *fiber.Ctx) error {
	out, err := h.uc.MyWarehouse(c.Context(), GetDepartment(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
