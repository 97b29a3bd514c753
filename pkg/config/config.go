package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Sync     SyncConfig
	Email    EmailConfig
	Archive  ArchiveConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type StripeConfig struct {
	SecretKey     string
	PublicKey     string
	WebhookSecret string
	// Page size used when listing remote plans during catalog sync.
	PlanPageLimit int64
	// When true, incoming webhook events are logged and archived.
	LogWebhooks     bool
	TrialPeriodDays int64
}

type SyncConfig struct {
	CronEnabled  bool
	CronSchedule string
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
	AdminEmail   string
}

type ArchiveConfig struct {
	Bucket string
	Region string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "rolegate-dev-secret"),
		},
		Stripe: StripeConfig{
			SecretKey:       getEnv("STRIPE_SECRET_KEY", ""),
			PublicKey:       getEnv("STRIPE_PUBLIC_KEY", ""),
			WebhookSecret:   getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PlanPageLimit:   getEnvInt64("STRIPE_PLAN_PAGE_LIMIT", 100),
			LogWebhooks:     getEnvBool("STRIPE_LOG_WEBHOOKS", false),
			TrialPeriodDays: getEnvInt64("STRIPE_TRIAL_PERIOD_DAYS", 0),
		},
		Sync: SyncConfig{
			CronEnabled:  getEnvBool("PLAN_SYNC_CRON_ENABLED", false),
			CronSchedule: getEnv("PLAN_SYNC_CRON_SCHEDULE", "0 4 * * *"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "RoleGate <noreply@rolegate.app>"),
			AdminEmail:   getEnv("ADMIN_EMAIL", ""),
		},
		Archive: ArchiveConfig{
			Bucket: getEnv("WEBHOOK_ARCHIVE_BUCKET", ""),
			Region: getEnv("WEBHOOK_ARCHIVE_REGION", "eu-central-1"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
