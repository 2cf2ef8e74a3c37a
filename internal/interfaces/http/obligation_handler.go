package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/application/usecase"
)

// ObligationHandler administra obligaciones y su plantilla de documentos.
type ObligationHandler struct {
	uc *usecase.ObligationUseCase
}

// NewObligationHandler construye el handler de obligaciones.
func NewObligationHandler(uc *usecase.ObligationUseCase) *ObligationHandler {
	return &ObligationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear obligación con su plantilla de documentos
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateObligationRequest  true  "obligación + document_types"
// @Success      201   {object}  dto.ObligationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/obligations [post]
// @Security     BearerAuth
func (h *ObligationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateObligationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetGroupID(c), in, time.Now())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Consultar obligación
// @Tags         obligations
// @Produce      json
// @Param        id  path  string  true  "obligation ID"
// @Success      200  {object}  dto.ObligationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/obligations/{id} [get]
// @Security     BearerAuth
func (h *ObligationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetGroupID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// UpdateTemplate godoc
// @Summary      Reemplazar la plantilla de documentos (sube la versión)
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "obligation ID"
// @Param        body  body  dto.UpdateTemplateRequest  true  "document_types"
// @Success      200   {object}  dto.ObligationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/template [put]
// @Security     BearerAuth
func (h *ObligationHandler) UpdateTemplate(c *fiber.Ctx) error {
	var in dto.UpdateTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateTemplate(c.Context(), GetGroupID(c), c.Params("id"), in, time.Now())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
