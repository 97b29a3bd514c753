package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rolegate_backend/internal/controller"
	"rolegate_backend/internal/middleware"
	"rolegate_backend/internal/model"
	"rolegate_backend/internal/store"
	"rolegate_backend/pkg/config"
	"rolegate_backend/pkg/cron"
	"rolegate_backend/pkg/database"
	"rolegate_backend/pkg/email"
	"rolegate_backend/pkg/seed"
	"rolegate_backend/pkg/stripeapi"
	"rolegate_backend/pkg/subscription"
	"rolegate_backend/pkg/webhookarchive"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	api.Get("/me", middleware.AuthMiddleware(), controller.GetMe)

	// Stripe webhook. Deliveries carry a signature header, not a bearer
	// token, so this route must stay outside the auth middleware.
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)

	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Post("/create-checkout-session", controller.CreateCheckoutSession)
	subProtected.Get("/manage", controller.ManageSubscription)
	subProtected.Get("/my", controller.GetMySubscriptions)
	subProtected.Post("/cancel", middleware.CheckSubscriptionAccess(), controller.CancelSubscription)
	subProtected.Post("/reactivate", middleware.CheckSubscriptionAccess(), controller.ReactivateSubscription)
	subProtected.Post("/sync-plans", middleware.RequireAdmin(), controller.SyncPlans)
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	if cfg.Database.URL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}
	if cfg.Stripe.SecretKey == "" {
		log.Fatal().Msg("STRIPE_SECRET_KEY is not set")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Plan{},
		&model.Subscription{},
	)
	if err != nil {
		log.Warn().Err(err).Msg("Migration warning")
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		seed.SeedPlans(database.DB)
		seed.SeedAdminUser(database.DB, "admin@rolegate.app", "changeme")
	}

	svc := subscription.New(
		store.NewPlanStore(database.DB),
		store.NewSubscriptionStore(database.DB),
		store.NewUserDirectory(database.DB),
		stripeapi.New(cfg.Stripe.SecretKey),
		cfg.Stripe,
	)

	if cfg.Email.ResendAPIKey != "" {
		if err := email.InitEmailService(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.AdminEmail); err != nil {
			log.Fatal().Err(err).Msg("Could not initialize email service")
		}
		svc.WithNotifier(email.GlobalEmailService)
	}

	if cfg.Stripe.LogWebhooks && cfg.Archive.Bucket != "" {
		archive, err := webhookarchive.New(cfg.Archive.Bucket, cfg.Archive.Region)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not initialize webhook archive")
		}
		svc.WithArchiver(archive)
	}

	controller.InitSubscriptionController(svc, cfg.Stripe)
	middleware.InitACLMiddleware(svc)

	if cfg.Sync.CronEnabled {
		cron.InitPlanSyncCron(svc, cfg.Sync.CronSchedule)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Info().Str("port", cfg.Server.Port).Msg("Server is running")
	log.Fatal().Err(app.Listen(":" + cfg.Server.Port)).Msg("Server stopped")
}
