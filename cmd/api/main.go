package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vendemia/crm-api/internal/application/auth"
	"github.com/vendemia/crm-api/internal/application/authz"
	appcampaign "github.com/vendemia/crm-api/internal/application/campaign"
	"github.com/vendemia/crm-api/internal/application/usecase"
	"github.com/vendemia/crm-api/internal/infrastructure/postgres"
	httpRouter "github.com/vendemia/crm-api/internal/interfaces/http"
	"github.com/vendemia/crm-api/pkg/config"
	"github.com/vendemia/crm-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	scopeResolver := authz.NewScopeResolver(userRepo)
	tenantGuard := authz.NewTenantGuard(log)
	visibility := authz.NewVisibilityFilter(authz.VisibilityConfig{
		IncludeUnassignedInSede: cfg.CRM.IncludeUnassignedInSede,
		VisibleIDsCap:           cfg.CRM.VisibleContactsCap,
	}, contactRepo)

	orchestrator := appcampaign.NewOrchestrator(campaignRepo, txRunner, appcampaign.Config{
		BatchInterval: time.Duration(cfg.CRM.BatchIntervalMinutes) * time.Minute,
	})

	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	contactUC := usecase.NewContactUseCase(contactRepo, userRepo, tenantGuard, visibility)
	comercialUC := usecase.NewComercialUseCase(userRepo, tenantGuard)
	campaignUC := usecase.NewCampaignUseCase(
		contactRepo, campaignRepo, orchestrator, tenantGuard, visibility,
		cfg.CRM.BatchSizeDefault,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CRM Comercial API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ContactUC:     contactUC,
		ComercialUC:   comercialUC,
		CampaignUC:    campaignUC,
		Orchestrator:  orchestrator,
		ScopeResolver: scopeResolver,
		JWTSecret:     cfg.JWT.Secret,
		WebhookToken:  cfg.CRM.WebhookToken,
		WebhookRate:   cfg.CRM.WebhookRatePerMin,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
