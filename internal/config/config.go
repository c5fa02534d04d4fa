// Package config loads viewer settings from the environment. Flags
// parsed in main take precedence over these.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings are the env-configurable viewer defaults.
type Settings struct {
	// DBPath overrides database discovery entirely.
	DBPath string `env:"STATEHIST_DB"`
	// Refresh is the polling fallback interval.
	Refresh time.Duration `env:"STATEHIST_REFRESH" envDefault:"2s"`
	// View is the view to start in (timeline|branches|bookmarks).
	View string `env:"STATEHIST_VIEW"`
}

// Load parses Settings from environment variables.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
