package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	libconfig "fleetdash/backend/libs/config"
)

// Config is the dashboard configuration, built once at startup and passed by
// pointer to everything that needs it.
type Config struct {
	HTTP struct {
		Host         string `yaml:"host" env:"FLEET_HTTP_HOST"`
		Port         string `yaml:"port" env:"FLEET_HTTP_PORT"`
		CSRFKey      string `yaml:"csrfKey" env:"FLEET_CSRF_KEY"`
		CookieSecure bool   `yaml:"cookieSecure" env:"FLEET_COOKIE_SECURE"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"FLEET_POSTGRES_DSN"`
		User         string `yaml:"user" env:"FLEET_DB_USER"`
		Password     string `yaml:"password" env:"FLEET_DB_PASSWORD"`
		Host         string `yaml:"host" env:"FLEET_DB_HOST"`
		Name         string `yaml:"name" env:"FLEET_DB_NAME"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"FLEET_DB_MAX_OPEN_CONNS"`
		AutoMigrate  bool   `yaml:"autoMigrate" env:"FLEET_AUTO_MIGRATE"`
	} `yaml:"database"`
	Auth struct {
		SessionSecret           string `yaml:"sessionSecret" env:"FLEET_SESSION_SECRET"`
		SessionTTLMinutes       int    `yaml:"sessionTTLMinutes" env:"FLEET_SESSION_TTL_MINUTES"`
		FallbackUsername        string `yaml:"fallbackUsername" env:"FLEET_FALLBACK_USERNAME"`
		FallbackPassword        string `yaml:"fallbackPassword" env:"FLEET_FALLBACK_PASSWORD"`
		AllowPlaintextPasswords bool   `yaml:"allowPlaintextPasswords" env:"FLEET_ALLOW_PLAINTEXT_PASSWORDS"`
	} `yaml:"auth"`
	Redis struct {
		Addr     string `yaml:"addr" env:"FLEET_REDIS_ADDR"`
		Password string `yaml:"password" env:"FLEET_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"FLEET_REDIS_DB"`
	} `yaml:"redis"`
	Live struct {
		PollSeconds int `yaml:"pollSeconds" env:"FLEET_LIVE_POLL_SECONDS"`
	} `yaml:"live"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"FLEET_METRICS_ENABLED"`
	} `yaml:"metrics"`
	Seed struct {
		AdminPassword string `yaml:"adminPassword" env:"FLEET_SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`
}

// Default returns a Config holding every non-secret default.
func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Host = "0.0.0.0"
	cfg.HTTP.Port = "5000"
	cfg.Database.Host = "localhost:5432"
	cfg.Database.Name = "fleet"
	cfg.Database.MaxOpenConns = 10
	cfg.Database.AutoMigrate = true
	cfg.Auth.SessionTTLMinutes = 480
	cfg.Live.PollSeconds = 5
	cfg.Metrics.Enabled = true
	return cfg
}

// Load reads configuration from the optional YAML file and the environment.
func Load() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSeed is Load for the seed command, which only needs the database.
func LoadSeed() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseDSN() == "" {
		return nil, errDatabaseRequired
	}
	return cfg, nil
}

var errDatabaseRequired = errors.New("config: database dsn or user/host required")

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseDSN() == "" {
		return errDatabaseRequired
	}
	if strings.TrimSpace(c.Auth.SessionSecret) == "" {
		return errors.New("config: session secret is required")
	}
	if key := c.HTTP.CSRFKey; key != "" && len(key) != 32 {
		return fmt.Errorf("config: csrf key must be 32 bytes, got %d", len(key))
	}
	if (c.Auth.FallbackUsername == "") != (c.Auth.FallbackPassword == "") {
		return errors.New("config: fallback username and password must be set together")
	}
	return nil
}

// HTTPAddress returns host:port for the listener.
func (c *Config) HTTPAddress() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.HTTP.Port), ":")
	if port == "" {
		port = "5000"
	}
	return net.JoinHostPort(strings.TrimSpace(c.HTTP.Host), port)
}

// DatabaseDSN returns the explicit DSN, or one composed from user, password,
// host and database name when no DSN is set.
func (c *Config) DatabaseDSN() string {
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn
	}
	if c.Database.User == "" || c.Database.Host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host,
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SessionTTL converts the configured lifetime to a duration.
func (c *Config) SessionTTL() time.Duration {
	if c.Auth.SessionTTLMinutes <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.Auth.SessionTTLMinutes) * time.Minute
}

// LivePollInterval is how often the live feed re-reads the latest sample.
func (c *Config) LivePollInterval() time.Duration {
	if c.Live.PollSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Live.PollSeconds) * time.Second
}

// FallbackEnabled reports whether the demo escape-hatch login is configured.
func (c *Config) FallbackEnabled() bool {
	return c.Auth.FallbackUsername != "" && c.Auth.FallbackPassword != ""
}
