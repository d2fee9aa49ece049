package main

import (
	"time"

	"jetcargo-backend/lib/ghl"
	"jetcargo-backend/lib/notify"
	"jetcargo-backend/lib/sqliteutil"
	"jetcargo-backend/services/relay"
)

type GhlConfig struct {
	ApiKey         string `json:"api_key"`
	LocationId     string `json:"location_id"`
	BaseUrl        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type NotifyConfig struct {
	Smtp notify.SmtpConfig `json:"smtp"`
	To   []string          `json:"to"`
}

type Config struct {
	Port          int               `json:"port"`
	Version       string            `json:"version"`
	Database      sqliteutil.Config `json:"database"`
	Ghl           GhlConfig         `json:"ghl"`
	Pipelines     map[string]string `json:"pipelines"`
	RateLimit     int               `json:"rate_limit"`
	TrustProxy    bool              `json:"trust_proxy"`
	RetentionDays int               `json:"retention_days"`
	Notify        NotifyConfig      `json:"notify"`
}

func (c Config) port() int {
	if c.Port == 0 {
		return 8000
	}
	return c.Port
}

func (c GhlConfig) options() ghl.Options {
	return ghl.Options{
		BaseUrl:    c.BaseUrl,
		ApiKey:     c.ApiKey,
		LocationId: c.LocationId,
		Timeout:    time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// notifier falls back to not notifying anyone when smtp is left out.
func (c NotifyConfig) notifier() notify.Notifier {
	if c.Smtp.Server == "" || len(c.To) == 0 {
		return notify.Noop{}
	}
	return notify.NewMailer(c.Smtp, c.To)
}

func (c Config) serviceOptions() relay.Options {
	return relay.Options{
		Version:       c.Version,
		Pipelines:     c.Pipelines,
		RateLimit:     c.RateLimit,
		TrustProxy:    c.TrustProxy,
		RetentionDays: c.RetentionDays,
	}
}
