package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "voltboard/backend/libs/config"
)

// Config defines dashboard service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"DASHBOARD_HTTP_PORT"`
	} `yaml:"http"`
	Store struct {
		DSN        string `yaml:"dsn" env:"DASHBOARD_POSTGRES_DSN"`
		Collection string `yaml:"collection" env:"DASHBOARD_COLLECTION"`
	} `yaml:"store"`
	Snapshot struct {
		Limit    int           `yaml:"limit" env:"DASHBOARD_SNAPSHOT_LIMIT"`
		CacheTTL time.Duration `yaml:"cache_ttl" env:"DASHBOARD_SNAPSHOT_CACHE_TTL"`
	} `yaml:"snapshot"`
	Poll struct {
		Interval   time.Duration `yaml:"interval" env:"DASHBOARD_POLL_INTERVAL"`
		MaxBackoff time.Duration `yaml:"max_backoff" env:"DASHBOARD_POLL_MAX_BACKOFF"`
	} `yaml:"poll"`
	Redis struct {
		Addr     string `yaml:"addr" env:"DASHBOARD_REDIS_ADDR"`
		Password string `yaml:"password" env:"DASHBOARD_REDIS_PASSWORD"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret      string        `yaml:"jwt_secret" env:"DASHBOARD_JWT_SECRET"`
		PassphraseHash string        `yaml:"passphrase_hash" env:"DASHBOARD_PASSPHRASE_HASH"`
		TokenTTL       time.Duration `yaml:"token_ttl" env:"DASHBOARD_TOKEN_TTL"`
	} `yaml:"auth"`
	BackgroundImage string `yaml:"background_image" env:"DASHBOARD_BACKGROUND_IMAGE"`
}

// Load configuration using the shared helper and apply defaults. The store
// DSN is deliberately not validated here: its absence must surface as the
// credentials-missing diagnostic when the session opens, not as a generic
// config error.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTP.Port) == "" {
		cfg.HTTP.Port = "8080"
	}
	if strings.TrimSpace(cfg.Store.Collection) == "" {
		cfg.Store.Collection = "sensor_readings"
	}
	if cfg.Snapshot.Limit <= 0 {
		cfg.Snapshot.Limit = 20
	}
	if cfg.Snapshot.CacheTTL <= 0 {
		cfg.Snapshot.CacheTTL = 60 * time.Second
	}
	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = 2 * time.Second
	}
	if cfg.Poll.MaxBackoff <= 0 {
		cfg.Poll.MaxBackoff = 30 * time.Second
	}
	if strings.TrimSpace(cfg.BackgroundImage) == "" {
		cfg.BackgroundImage = "background.jpg"
	}

	if err := cfg.validateAuth(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AuthEnabled reports whether the dashboard is passphrase-protected.
func (c *Config) AuthEnabled() bool {
	return strings.TrimSpace(c.Auth.JWTSecret) != ""
}

func (c *Config) validateAuth() error {
	if !c.AuthEnabled() {
		return nil
	}
	if strings.TrimSpace(c.Auth.PassphraseHash) == "" {
		return errors.New("config: auth enabled but passphrase_hash is empty")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
