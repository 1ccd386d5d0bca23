package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.Redis.Addr)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "Memory")
	v.Set("HTTP_PORT", "9090")
	v.Set("DB_AUTO_MIGRATE", "true")
	v.Set("IDEMPOTENCY_TTL_HOURS", 2)
	v.Set("REDIS_ADDR", "localhost:6379")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 2*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mysql")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProduccionExigeSecreto(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "materiales", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/materiales?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestFromViper_SecretoDesarrollo(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, devJWTSecret, cfg.JWT.Secret)

	v := viper.New()
	v.Set("JWT_SECRET", "otro")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "otro", cfg.JWT.Secret)
}
