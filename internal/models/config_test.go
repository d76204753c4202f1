package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, time.Second, cfg.Reservation.DebounceWindow)
	assert.Equal(t, 30*time.Minute, cfg.Reservation.SlotInterval)
	assert.Equal(t, SearchWeights{Name: 10, Description: 5, Category: 3, Tag: 2}, cfg.Search.Weights)
	assert.Equal(t, "log", cfg.Events.Sink)
	assert.Equal(t, "http://localhost:8080", cfg.Reservation.RPCURL)
	assert.Equal(t, 5*time.Second, cfg.Reservation.RPCTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Payment.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cart.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Server.SweepInterval)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodsite.yaml")
	body := `
log_level: debug
reservation:
  debounce_window: 250ms
payment:
  allowed_origins:
    - https://pay.example.com
search:
  weights:
    tag: 4
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Reservation.DebounceWindow)
	assert.Equal(t, []string{"https://pay.example.com"}, cfg.Payment.AllowedOrigins)
	assert.Equal(t, 4, cfg.Search.Weights.Tag)
	assert.Equal(t, 10, cfg.Search.Weights.Name)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  sink: carrier-pigeon\n"), 0o644))

	_, err := LoadConfig(viper.New(), path)
	assert.ErrorContains(t, err, "events.sink")
}
