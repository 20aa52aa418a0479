package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Services ServicesConfig
	Gateway  GatewayConfig
	Session  SessionConfig
	Notify   NotifyConfig
	Log      LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// ServicesConfig holds the base URLs of the backend services this
// client consumes
type ServicesConfig struct {
	CustomerURL string
	StorageURL  string
	MediaURL    string
	CartURL     string
}

// GatewayConfig holds outbound HTTP settings
type GatewayConfig struct {
	Timeout         time.Duration
	MaxResponseSize int64
}

// SessionConfig holds local session persistence settings
type SessionConfig struct {
	Backend    string // sqlite, redis, or memory
	SQLitePath string
	Redis      RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NotifyConfig holds notification settings
type NotifyConfig struct {
	DismissDelay time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g. STOREFRONT_SERVICES_STORAGE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Services: ServicesConfig{
			CustomerURL: v.GetString("services.customer_url"),
			StorageURL:  v.GetString("services.storage_url"),
			MediaURL:    v.GetString("services.media_url"),
			CartURL:     v.GetString("services.cart_url"),
		},
		Gateway: GatewayConfig{
			Timeout:         v.GetDuration("gateway.timeout"),
			MaxResponseSize: v.GetInt64("gateway.max_response_size"),
		},
		Session: SessionConfig{
			Backend:    v.GetString("session.backend"),
			SQLitePath: v.GetString("session.sqlite_path"),
			Redis: RedisConfig{
				Host:     v.GetString("session.redis.host"),
				Port:     v.GetInt("session.redis.port"),
				Password: v.GetString("session.redis.password"),
				DB:       v.GetInt("session.redis.db"),
			},
		},
		Notify: NotifyConfig{
			DismissDelay: v.GetDuration("notify.dismiss_delay"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8090"
	}
	if cfg.Services.CustomerURL == "" {
		cfg.Services.CustomerURL = "http://localhost:5001"
	}
	if cfg.Services.StorageURL == "" {
		cfg.Services.StorageURL = "http://localhost:5002"
	}
	if cfg.Services.MediaURL == "" {
		cfg.Services.MediaURL = "http://localhost:5003"
	}
	if cfg.Services.CartURL == "" {
		cfg.Services.CartURL = "http://localhost:5004"
	}
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = 30 * time.Second
	}
	if cfg.Gateway.MaxResponseSize == 0 {
		cfg.Gateway.MaxResponseSize = 10 << 20 // 10MB
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "sqlite"
	}
	if cfg.Session.SQLitePath == "" {
		cfg.Session.SQLitePath = "storefront.db"
	}
	if cfg.Session.Redis.Host == "" {
		cfg.Session.Redis.Host = "localhost"
	}
	if cfg.Session.Redis.Port == 0 {
		cfg.Session.Redis.Port = 6379
	}
	if cfg.Notify.DismissDelay == 0 {
		cfg.Notify.DismissDelay = 3 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Session.Backend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("session.backend must be one of sqlite, redis, memory; got %q", c.Session.Backend)
	}

	for name, u := range map[string]string{
		"services.customer_url": c.Services.CustomerURL,
		"services.storage_url":  c.Services.StorageURL,
		"services.media_url":    c.Services.MediaURL,
		"services.cart_url":     c.Services.CartURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, u)
		}
	}

	if c.Gateway.Timeout < 0 {
		return fmt.Errorf("gateway.timeout cannot be negative")
	}
	if c.Notify.DismissDelay < time.Second || c.Notify.DismissDelay > 10*time.Second {
		return fmt.Errorf("notify.dismiss_delay must be between 1s and 10s")
	}

	if c.App.Env == "production" && c.Session.Backend == "memory" {
		return fmt.Errorf("session.backend=memory loses sessions on restart and is not allowed in production")
	}

	return nil
}

// Addr returns the redis connection address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
