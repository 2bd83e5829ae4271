package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appcampaign "github.com/vendemia/crm-api/internal/application/campaign"
	"github.com/vendemia/crm-api/internal/application/dto"
)

// WebhookHandler recibe los reportes del sistema externo de entrega sobre lotes.
// Autenticado por token compartido (WebhookAuth), no por JWT de usuario.
type WebhookHandler struct {
	orch *appcampaign.Orchestrator
}

// NewWebhookHandler construye el handler de webhooks.
func NewWebhookHandler(orch *appcampaign.Orchestrator) *WebhookHandler {
	return &WebhookHandler{orch: orch}
}

// Processing godoc
// @Summary      El sistema de entrega tomó el lote (pending -> processing)
// @Tags         webhooks
// @Param        batchId  path  string  true  "ID del lote"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /webhooks/batches/{batchId}/processing [post]
func (h *WebhookHandler) Processing(c *fiber.Ctx) error {
	if err := h.orch.MarkBatchProcessing(c.UserContext(), c.Params("batchId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Outcome godoc
// @Summary      Resultado terminal de un lote (processing -> sent|failed)
// @Tags         webhooks
// @Accept       json
// @Param        batchId  path  string  true  "ID del lote"
// @Param        body     body  dto.BatchOutcomeRequest  true  "outcome: sent | failed"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /webhooks/batches/{batchId}/outcome [post]
func (h *WebhookHandler) Outcome(c *fiber.Ctx) error {
	var in dto.BatchOutcomeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	processedAt := time.Now().UTC()
	if in.ProcessedAt != nil {
		processedAt = in.ProcessedAt.UTC()
	}
	if err := h.orch.RecordBatchOutcome(c.UserContext(), c.Params("batchId"), in.Outcome, processedAt); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
