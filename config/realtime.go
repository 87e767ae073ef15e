package config

import "strings"

// RealtimeConfig describes the broadcaster the gateway subscribes to for
// realtime order notifications.
type RealtimeConfig struct {
	Host    string `env:"HOST"    envDefault:"localhost"`
	Port    int    `env:"PORT"    envDefault:"6379"`
	Scheme  string `env:"SCHEME"  envDefault:"redis"`
	Key     string `env:"KEY"     envDefault:""`
	Channel string `env:"CHANNEL" envDefault:"orders"`

	// Enabled disables the listener entirely when false (e.g. in contexts
	// with no broadcaster, listener setup becomes a no-op).
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

// Sanitize applies guardrails to realtime configuration values.
func (r *RealtimeConfig) Sanitize() {
	r.Channel = strings.TrimSpace(r.Channel)
	if r.Channel == "" {
		r.Channel = "orders"
	}
	if r.Scheme != "redis" && r.Scheme != "rediss" {
		r.Scheme = "redis"
	}
	if r.Port <= 0 || r.Port > 65535 {
		r.Port = 6379
	}
}
