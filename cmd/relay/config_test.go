package main

import (
	"testing"
	"time"

	"jetcargo-backend/lib/configutil"
	"jetcargo-backend/lib/notify"

	"github.com/stretchr/testify/require"
)

func TestExampleConfig(t *testing.T) {
	t.Setenv("GHL_API_KEY", "key")
	t.Setenv("GHL_LOCATION_ID", "location")

	cfg, err := configutil.ReadConfig[Config]("config.example.json5")
	require.NoError(t, err)
	require.Equal(t, 8000, cfg.port())
	require.Equal(t, "key", cfg.Ghl.ApiKey)
	require.Equal(t, "location", cfg.Ghl.LocationId)
	require.Equal(t, 5, cfg.serviceOptions().RateLimit)
	require.Equal(t, 90, cfg.serviceOptions().RetentionDays)
	require.False(t, cfg.serviceOptions().TrustProxy)
	require.IsType(t, notify.Mailer{}, cfg.Notify.notifier())
}

func TestDefaults(t *testing.T) {
	cfg := Config{Ghl: GhlConfig{TimeoutSeconds: 10}}
	require.Equal(t, 8000, cfg.port())
	require.Equal(t, 10*time.Second, cfg.Ghl.options().Timeout)
	require.IsType(t, notify.Noop{}, cfg.Notify.notifier())

	cfg.Notify.Smtp.Server = "smtp.example.com"
	require.IsType(t, notify.Noop{}, cfg.Notify.notifier())
}
