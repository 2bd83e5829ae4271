package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendemia/crm-api/internal/application/auth"
	"github.com/vendemia/crm-api/internal/application/authz"
	appcampaign "github.com/vendemia/crm-api/internal/application/campaign"
	"github.com/vendemia/crm-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ContactUC     *usecase.ContactUseCase
	ComercialUC   *usecase.ComercialUseCase
	CampaignUC    *usecase.CampaignUseCase
	Orchestrator  *appcampaign.Orchestrator
	ScopeResolver *authz.ScopeResolver
	JWTSecret     string
	WebhookToken  string
	WebhookRate   int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas: Bearer Token + alcance resuelto desde el perfil
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret),
		ScopeMiddleware(deps.ScopeResolver),
	)

	// Contacts (protegido, visibilidad por rol en el caso de uso)
	contacts := protected.Group("/contacts")
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts.Get("/", contactHandler.List)
	contacts.Get("/visible-ids", contactHandler.VisibleIDs)
	contacts.Put("/:id/assign", contactHandler.Assign)

	// Comerciales (protegido, jerarquía de roles)
	comerciales := protected.Group("/comerciales")
	comercialHandler := NewComercialHandler(deps.ComercialUC)
	comerciales.Get("/", comercialHandler.List)
	comerciales.Get("/assignable-roles", comercialHandler.AssignableRoles)
	comerciales.Put("/:id/role", comercialHandler.UpdateRole)

	// Campaigns (protegido)
	campaigns := protected.Group("/campaigns")
	campaignHandler := NewCampaignHandler(deps.CampaignUC)
	campaigns.Post("/", campaignHandler.Create)
	campaigns.Get("/", campaignHandler.List)
	campaigns.Get("/:id", campaignHandler.GetByID)
	campaigns.Get("/:id/batches", campaignHandler.Batches)
	campaigns.Post("/:id/batches/:batchId/retry", campaignHandler.RetryBatch)

	// Webhooks del sistema de entrega (token compartido, no JWT)
	webhooks := app.Group("/webhooks/batches/:batchId",
		WebhookAuth(deps.WebhookToken),
		WebhookRateLimit(deps.WebhookRate),
	)
	webhookHandler := NewWebhookHandler(deps.Orchestrator)
	webhooks.Post("/processing", webhookHandler.Processing)
	webhooks.Post("/outcome", webhookHandler.Outcome)
}
