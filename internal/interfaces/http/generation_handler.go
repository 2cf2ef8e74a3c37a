package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Obligaciones-api/internal/application/dto"
	"github.com/jhoicas/Obligaciones-api/internal/application/generation"
)

// GenerationHandler vista previa, commit y corrida manual del lote automático.
type GenerationHandler struct {
	previewUC  *generation.PreviewUseCase
	generateUC *generation.GenerateUseCase
	autoUC     *generation.AutomaticGenerationUseCase
}

// NewGenerationHandler construye el handler de generación.
func NewGenerationHandler(
	previewUC *generation.PreviewUseCase,
	generateUC *generation.GenerateUseCase,
	autoUC *generation.AutomaticGenerationUseCase,
) *GenerationHandler {
	return &GenerationHandler{previewUC: previewUC, generateUC: generateUC, autoUC: autoUC}
}

// Preview godoc
// @Summary      Vista previa del plan de generación (sin efectos)
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewRequest  true  "obligation_id, company_ids, rango de fechas"
// @Success      200   {object}  dto.PreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/generation/preview [post]
// @Security     BearerAuth
func (h *GenerationHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.previewUC.PreviewTasks(c.Context(), GetGroupID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Generar tareas para competencias explícitas
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateRequest  true  "obligation_id, company_ids, competencies"
// @Success      201   {object}  dto.GenerateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/generation/generate [post]
// @Security     BearerAuth
func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.generateUC.GenerateTasks(c.Context(), GetGroupID(c), in, time.Now())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RunAutomatic godoc
// @Summary      Disparar manualmente el lote de generación automática
// @Tags         generation
// @Produce      json
// @Success      200  {object}  dto.AutomaticRunResponse
// @Router       /api/generation/run-automatic [post]
// @Security     BearerAuth
func (h *GenerationHandler) RunAutomatic(c *fiber.Ctx) error {
	out, err := h.autoUC.Run(c.Context(), time.Now())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
