package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendemia/crm-api/internal/application/dto"
	"github.com/vendemia/crm-api/internal/application/usecase"
)

// ContactHandler maneja las peticiones HTTP para contactos (protegido).
// La visibilidad por rol se aplica en el caso de uso, nunca aquí.
type ContactHandler struct {
	uc *usecase.ContactUseCase
}

// NewContactHandler construye el handler.
func NewContactHandler(uc *usecase.ContactUseCase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// List godoc
// @Summary      Listar contactos visibles
// @Tags         contacts
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Búsqueda por nombre o número (insensible a acentos)"
// @Param        status_id  query  string  false  "Filtrar por estado"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.ContactResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/contacts [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	scope, ok := GetScope(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "alcance no resuelto"})
	}
	var in dto.ListContactsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), scope, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// VisibleIDs godoc
// @Summary      Materializar los ids de contactos visibles para el solicitante
// @Tags         contacts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VisibleIDsResponse
// @Router       /api/contacts/visible-ids [get]
func (h *ContactHandler) VisibleIDs(c *fiber.Ctx) error {
	scope, ok := GetScope(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "alcance no resuelto"})
	}
	out, err := h.uc.VisibleIDs(c.UserContext(), scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar un contacto a un comercial
// @Tags         contacts
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del contacto"
// @Param        body  body  dto.AssignContactRequest  true  "user_id destino"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contacts/{id}/assign [put]
func (h *ContactHandler) Assign(c *fiber.Ctx) error {
	scope, ok := GetScope(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "alcance no resuelto"})
	}
	id := c.Params("id")
	var in dto.AssignContactRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id es requerido"})
	}
	if err := h.uc.Assign(c.UserContext(), scope, id, in.UserID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
