package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.TxMaxRetries)
	assert.Equal(t, "0.01", cfg.Loyalty.EarnRate.String())
	assert.Equal(t, "1", cfg.Loyalty.PointValue.String())
	assert.Equal(t, 365, cfg.Loyalty.ExpiryDays)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "POSTGRES")
	t.Setenv("PGSQL_URL", "postgres://localhost/billing")
	t.Setenv("LOYALTY_EARN_RATE", "0.05")
	t.Setenv("LOYALTY_POINT_VALUE", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pos.example.com, https://admin.example.com")
	t.Setenv("STORE_STATE_CODE", " 29 ")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://localhost/billing", cfg.DatabaseURL)
	assert.Equal(t, "0.05", cfg.Loyalty.EarnRate.String())
	assert.Equal(t, "1", cfg.Loyalty.PointValue.String(), "invalid decimal falls back to default")
	assert.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "29", cfg.StoreStateCode)
}

func TestLoadConfig_InvalidDriverFallsBack(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
}
