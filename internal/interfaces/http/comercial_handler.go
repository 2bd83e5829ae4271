package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendemia/crm-api/internal/application/dto"
	"github.com/vendemia/crm-api/internal/application/usecase"
)

// ComercialHandler maneja la gestión del equipo comercial (protegido).
type ComercialHandler struct {
	uc *usecase.ComercialUseCase
}

// NewComercialHandler construye el handler.
func NewComercialHandler(uc *usecase.ComercialUseCase) *ComercialHandler {
	return &ComercialHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios del equipo
// @Tags         comerciales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.UserResponse
// @Router       /api/comerciales [get]
func (h *ComercialHandler) List(c *fiber.Ctx) error {
	scope, ok := GetScope(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "alcance no resuelto"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), scope, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AssignableRoles godoc
// @Summary      Roles que el solicitante puede otorgar
// @Tags         comerciales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/comerciales/assignable-roles [get]
func (h *ComercialHandler) AssignableRoles(c *fiber.Ctx) error {
	scope, ok := GetScope(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "alcance no resuelto"})
	}
	return c.JSON(h.uc.AssignableRoles(scope))
}

// UpdateRole godoc
// @Summary      Cambiar el rol comercial de un usuario
// @Tags         comerciales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario objetivo"
// @Param        body  body  dto.UpdateRoleRequest  true  "comercial_role null revoca"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/comerciales/{id}/role [put]
func (h *ComercialHandler) UpdateRole(c *fiber.Ctx) error {
	scope, ok := GetScope(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "alcance no resuelto"})
	}
	id := c.Params("id")
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateRole(c.UserContext(), scope, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
