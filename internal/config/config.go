// Package config reads the server's settings from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
)

// Config is the full server configuration.
type Config struct {
	Port       int    `env:"PORT"        envDefault:"8080"`
	GinMode    string `env:"GIN_MODE"    envDefault:"debug"`
	ContentDir string `env:"CONTENT_DIR"`
	DBPath     string `env:"DB_PATH"     envDefault:"portfolio.db"`

	Admin     Admin
	SMTP      SMTP
	Analytics Analytics
}

// Admin holds the dashboard credentials.
type Admin struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

// DefaultCredentials reports whether the built-in development credentials
// are still in use.
func (a Admin) DefaultCredentials() bool {
	return a.Username == "admin" || a.Password == "admin123"
}

// SMTP configures delivery of contact form messages.
type SMTP struct {
	Host string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port int    `env:"SMTP_PORT" envDefault:"587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	To   string `env:"TO_EMAIL"`
}

// Configured reports whether credentials and a recipient are set.
func (s SMTP) Configured() bool {
	return s.User != "" && s.Pass != "" && s.To != ""
}

// Analytics configures visitor tracking.
type Analytics struct {
	Enabled   bool          `env:"TRACK_VISITORS"    envDefault:"true"`
	Retention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.Errorf("PORT out of range: %d", cfg.Port)
	}
	if cfg.Analytics.Retention <= 0 {
		return Config{}, errors.Errorf("VISITOR_RETENTION must be positive, got %s", cfg.Analytics.Retention)
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return Config{}, errors.Errorf("GIN_MODE must be debug, release or test, got %q", cfg.GinMode)
	}
	if cfg.GinMode == "release" && cfg.Admin.DefaultCredentials() {
		return Config{}, errors.New("default admin credentials are not allowed in release mode; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	return cfg, nil
}
