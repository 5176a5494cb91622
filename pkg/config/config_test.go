package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeConfig struct {
	Port            int           `env:"STORE_HTTP_PORT" envDefault:"8080"`
	DatabaseURL     string        `env:"STORE_DATABASE_URL" envDefault:"postgres://localhost:5432/storefront"`
	LogLevel        string        `env:"STORE_LOG_LEVEL" envDefault:"info"`
	KafkaEnabled    bool          `env:"STORE_KAFKA_ENABLED" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"STORE_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg storeConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/storefront", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_HTTP_PORT", "9443")
	t.Setenv("STORE_DATABASE_URL", "postgres://db.internal:5432/storefront_prod")
	t.Setenv("STORE_LOG_LEVEL", "warn")
	t.Setenv("STORE_KAFKA_ENABLED", "true")
	t.Setenv("STORE_SHUTDOWN_TIMEOUT", "30s")

	var cfg storeConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9443, cfg.Port)
	assert.Equal(t, "postgres://db.internal:5432/storefront_prod", cfg.DatabaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

type secretConfig struct {
	JWTSecret string `env:"STORE_JWT_SECRET,required"`
}

func TestLoad_RequiredSecretMissing(t *testing.T) {
	var cfg secretConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RequiredSecretPresent(t *testing.T) {
	t.Setenv("STORE_JWT_SECRET", "dev-only-signing-key")

	var cfg secretConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "dev-only-signing-key", cfg.JWTSecret)
}

func TestLoad_MalformedValue(t *testing.T) {
	t.Setenv("STORE_HTTP_PORT", "eight-thousand")

	var cfg storeConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
