package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "stockflow-api", cfg.App.Name)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "0.0.0.0:3001", cfg.HTTP.Addr())
	assert.Equal(t, 5, cfg.Audit.TimeoutSeconds)
	assert.False(t, cfg.OAuth.Google.Enabled())
}

func TestFromViper_IntDesdeString(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "8088")
	v.Set("DB_PORT", "no-es-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.DB.Port, "un valor inválido conserva el default")
}

func TestFromViper_ProduccionSinSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://x@y/z"
	assert.Equal(t, "postgresql://x@y/z", c.ConnectionString())
}

func TestOAuthProviderConfig_Enabled(t *testing.T) {
	p := OAuthProviderConfig{ClientID: "id", ClientSecret: "secret"}
	assert.False(t, p.Enabled())
	p.CallbackURL = "http://localhost:3001/api/auth/google/callback"
	assert.True(t, p.Enabled())
}
