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
	assert.True(t, cfg.App.MetricsEnabled)
	assert.Equal(t, int64(20), cfg.Stock.LowThreshold)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "@every 1h", cfg.Audit.Schedule)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STOCK_LOW_THRESHOLD", "5")
	v.Set("AUDIT_ENABLED", "false")
	v.Set("HTTP_PORT", "9090")
	v.Set("DB_PASSWORD", "p@ss:word")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.Stock.LowThreshold)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword@localhost:5432/stock_tracker")
}

func TestFromViper_UmbralInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STOCK_LOW_THRESHOLD", "0")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestConnectionString_PrefiereDatabaseURL(t *testing.T) {
	c := DBConfig{DatabaseURL: "postgres://u:p@db:5432/x", Host: "otro"}
	assert.Equal(t, "postgres://u:p@db:5432/x", c.ConnectionString())
}
