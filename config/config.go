package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Backends: "mongo" or "memory" for storage, "local" or "redis" for locks.
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	LockDriver    string `mapstructure:"LOCK_DRIVER"`
	LockTTL       int    `mapstructure:"LOCK_TTL_SECONDS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`
	RedisCreditDB int    `mapstructure:"REDIS_CREDIT_DB"`

	// Payments.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	// Notifications.
	NotificationsEnabled    bool   `mapstructure:"NOTIFICATIONS_ENABLED"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	ReminderLeadMinutes     int    `mapstructure:"REMINDER_LEAD_MINUTES"`

	// Scheduling.
	DefaultTimeZone    string `mapstructure:"DEFAULT_TIME_ZONE"`
	SessionLinkBaseURL string `mapstructure:"SESSION_LINK_BASE_URL"`
	SessionTickSeconds int    `mapstructure:"SESSION_TICK_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "astrobook")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("STORAGE_DRIVER", "mongo")
	viper.SetDefault("LOCK_DRIVER", "local")
	viper.SetDefault("LOCK_TTL_SECONDS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("REDIS_CREDIT_DB", 2)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("NOTIFICATIONS_ENABLED", false)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "config/firebase-service-account.json")
	viper.SetDefault("REMINDER_LEAD_MINUTES", 15)
	viper.SetDefault("DEFAULT_TIME_ZONE", "Asia/Kolkata")
	viper.SetDefault("SESSION_LINK_BASE_URL", "https://meet.astrobook.app/room")
	viper.SetDefault("SESSION_TICK_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
