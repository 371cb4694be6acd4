package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// LoyaltyPolicy configures accrual and redemption of loyalty points.
type LoyaltyPolicy struct {
	EarnRate   decimal.Decimal // points per currency unit of bill total, e.g. 0.01
	PointValue decimal.Decimal // currency value of one point when redeemed at billing
	ExpiryDays int             // 0 disables expiry
}

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	StorageDriver      string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	RunMigrations      bool
	MigrationsPath     string
	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string
	RateLimit          string
	RedisURL           string
	PosthogAPIKey      string
	PosthogEndpoint    string
	StoreStateCode     string
	TxMaxRetries       int
	Loyalty            LoyaltyPolicy
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("RUN_MIGRATIONS", false)
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("STORE_STATE_CODE", "")
	viper.SetDefault("TX_MAX_RETRIES", 3)
	viper.SetDefault("LOYALTY_EARN_RATE", "0.01")
	viper.SetDefault("LOYALTY_POINT_VALUE", "1")
	viper.SetDefault("LOYALTY_EXPIRY_DAYS", 365)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     viper.GetString("PGSQL_URL"),
		StorageDriver:   strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		Port:            viper.GetString("PORT"),
		IsProduction:    viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   viper.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:   viper.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:  viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		JWTIssuer:       viper.GetString("JWT_ISSUER"),
		RateLimit:       viper.GetString("RATE_LIMIT"),
		RedisURL:        viper.GetString("REDIS_URL"),
		PosthogAPIKey:   viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: viper.GetString("POSTHOG_ENDPOINT"),
		StoreStateCode:  strings.TrimSpace(viper.GetString("STORE_STATE_CODE")),
		TxMaxRetries:    viper.GetInt("TX_MAX_RETRIES"),
	}

	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		log.Printf("Warning: Invalid value for STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}
	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.TxMaxRetries < 0 {
		log.Printf("Warning: Invalid value for TX_MAX_RETRIES (%d). Defaulting to 0.\n", cfg.TxMaxRetries)
		cfg.TxMaxRetries = 0
	}

	cfg.Loyalty = LoyaltyPolicy{
		EarnRate:   decimalSetting("LOYALTY_EARN_RATE", decimal.RequireFromString("0.01")),
		PointValue: decimalSetting("LOYALTY_POINT_VALUE", decimal.NewFromInt(1)),
		ExpiryDays: viper.GetInt("LOYALTY_EXPIRY_DAYS"),
	}
	if cfg.Loyalty.ExpiryDays < 0 {
		log.Printf("Warning: Invalid value for LOYALTY_EXPIRY_DAYS (%d). Disabling expiry.\n", cfg.Loyalty.ExpiryDays)
		cfg.Loyalty.ExpiryDays = 0
	}

	return cfg, nil
}

// decimalSetting reads a non-negative decimal, falling back to def on bad input.
func decimalSetting(key string, def decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		return def
	}
	return value
}
