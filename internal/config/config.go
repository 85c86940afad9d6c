package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath    = "CONFIG_PATH"
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
	EnvAPIURL        = "API_URL"

	DefaultConfigPath = "config/config.yml"
)

// Config holds the overall configuration for the application.
type Config struct {
	Telegram    TelegramConfig    `yaml:"telegram"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Render      RenderConfig      `yaml:"render"`
	Promotion   PromotionConfig   `yaml:"promotion"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	WalletStore WalletStoreConfig `yaml:"walletStore"`
}

// TelegramConfig holds the bot transport configuration.
type TelegramConfig struct {
	Token              string `yaml:"token"`
	PollTimeoutSeconds int    `yaml:"pollTimeoutSeconds"`
	WorkerCount        int    `yaml:"workerCount"`
	Debug              bool   `yaml:"debug"`
}

// UpstreamConfig holds the portfolio API configuration.
type UpstreamConfig struct {
	BaseURL              string `yaml:"baseURL"`
	WalletParam          string `yaml:"walletParam"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// RequestTimeout returns the upstream timeout as a duration.
func (u UpstreamConfig) RequestTimeout() time.Duration {
	return time.Duration(u.RequestTimeoutMillis) * time.Millisecond
}

// RenderConfig holds portfolio rendering options.
type RenderConfig struct {
	PageSize       int    `yaml:"pageSize"`
	NoiseThreshold string `yaml:"noiseThreshold"` // decimal string, e.g. "0.01"
	NativeSymbol   string `yaml:"nativeSymbol"`
	MarketDataURL  string `yaml:"marketDataURL"`
	Footer         string `yaml:"footer"`
}

// NoiseThresholdDecimal parses NoiseThreshold. Call after Validate.
func (r RenderConfig) NoiseThresholdDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(r.NoiseThreshold)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PromotionConfig holds the promotional message settings.
type PromotionConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MinRequests int    `yaml:"minRequests"`
	MaxRequests int    `yaml:"maxRequests"`
	Text        string `yaml:"text"`
}

// ServerConfig holds the ops HTTP server configuration.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	ReadTimeout    int      `yaml:"readTimeout"`
	WriteTimeout   int      `yaml:"writeTimeout"`
	IdleTimeout    int      `yaml:"idleTimeout"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// WalletStoreConfig holds configuration for the per-user wallet store.
type WalletStoreConfig struct {
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// Load reads .env (if present), the YAML file at path (if present), applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}

	var cfg Config
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults and environment", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTelegramToken); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.Upstream.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Telegram.PollTimeoutSeconds <= 0 {
		c.Telegram.PollTimeoutSeconds = 60
		logrus.Infof("Telegram.PollTimeoutSeconds not set, defaulting to %d", c.Telegram.PollTimeoutSeconds)
	}
	if c.Telegram.WorkerCount <= 0 {
		c.Telegram.WorkerCount = 16
		logrus.Infof("Telegram.WorkerCount not set, defaulting to %d", c.Telegram.WorkerCount)
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "https://pepu-portfolio-tracker.onrender.com/portfolio"
		logrus.Infof("Upstream.BaseURL not set, defaulting to %s", c.Upstream.BaseURL)
	}
	if c.Upstream.WalletParam == "" {
		c.Upstream.WalletParam = "wallet"
	}
	if c.Upstream.RequestTimeoutMillis == 0 {
		c.Upstream.RequestTimeoutMillis = 15000
		logrus.Infof("Upstream.RequestTimeoutMillis not set, defaulting to %d ms", c.Upstream.RequestTimeoutMillis)
	}

	if c.Render.PageSize == 0 {
		c.Render.PageSize = 20
		logrus.Infof("Render.PageSize not set, defaulting to %d", c.Render.PageSize)
	}
	if c.Render.NoiseThreshold == "" {
		c.Render.NoiseThreshold = "0.01"
		logrus.Infof("Render.NoiseThreshold not set, defaulting to %s", c.Render.NoiseThreshold)
	}
	if c.Render.NativeSymbol == "" {
		c.Render.NativeSymbol = "PEPU"
	}
	if c.Render.MarketDataURL == "" {
		c.Render.MarketDataURL = "https://dexscreener.com/pepeunchained"
	}

	if c.Promotion.MinRequests == 0 {
		c.Promotion.MinRequests = 5
	}
	if c.Promotion.MaxRequests == 0 {
		c.Promotion.MaxRequests = 10
	}

	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for values the bot cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, fmt.Errorf("telegram token is required (set telegram.token or %s)", EnvTelegramToken))
	}
	if c.Upstream.RequestTimeoutMillis < 0 {
		errs = append(errs, fmt.Errorf("upstream.requestTimeoutMillis must be positive, got %d", c.Upstream.RequestTimeoutMillis))
	}
	if c.Render.PageSize < 0 {
		errs = append(errs, fmt.Errorf("render.pageSize must be positive, got %d", c.Render.PageSize))
	}
	if d, err := decimal.NewFromString(c.Render.NoiseThreshold); err != nil {
		errs = append(errs, fmt.Errorf("render.noiseThreshold %q is not a number: %w", c.Render.NoiseThreshold, err))
	} else if d.IsNegative() {
		errs = append(errs, fmt.Errorf("render.noiseThreshold must not be negative, got %s", c.Render.NoiseThreshold))
	}
	if c.Promotion.Enabled {
		if c.Promotion.MinRequests < 1 || c.Promotion.MaxRequests < c.Promotion.MinRequests {
			errs = append(errs, fmt.Errorf("promotion range [%d, %d] is invalid", c.Promotion.MinRequests, c.Promotion.MaxRequests))
		}
		if c.Promotion.Text == "" {
			errs = append(errs, errors.New("promotion.text is required when promotion is enabled"))
		}
	}
	return errors.Join(errs...)
}
