// Package config manages application configuration from defaults, an optional
// YAML file, a .env file and environment variables.
package config

import "time"

// Config defines the application configuration. Values can be set through
// config.yaml or environment variables prefixed with COMMERCE_
// (e.g., COMMERCE_AI_API_KEY).
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Exchanges ExchangesConfig `mapstructure:"exchanges"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Proxy     ProxyConfig     `mapstructure:"proxy"`
	Tagger    TaggerConfig    `mapstructure:"tagger"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Address         string        `mapstructure:"address"          validate:"required"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

// AIConfig selects and configures the completion backend.
// APIKey may be empty: completion calls then fail at call time.
type AIConfig struct {
	Backend     string        `mapstructure:"backend"     validate:"required,oneof=openai gemini"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=0,max=10m"`
}

// CatalogConfig locates the product catalog file.
type CatalogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// DatabaseConfig configures the SQLite exchange log.
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// ExchangesConfig controls how long logged chat exchanges are kept.
type ExchangesConfig struct {
	Retention time.Duration `mapstructure:"retention" validate:"min=0"`
}

// TaskConfig holds the configuration of a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their configuration.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TelegramConfig configures the optional Telegram chat surface.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token" validate:"required_if=Enabled true"`
}

// ProxyConfig configures the image proxy endpoint.
type ProxyConfig struct {
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
	Referer   string        `mapstructure:"referer"`
	Timeout   time.Duration `mapstructure:"timeout"    validate:"min=0"`
}

// TaggerConfig configures the offline catalog tagging batch.
type TaggerConfig struct {
	SourceURL   string `mapstructure:"source_url"  validate:"required,url"`
	Concurrency int    `mapstructure:"concurrency" validate:"min=1,max=32"`
}

// MessagesConfig holds user-facing texts of the Telegram surface.
type MessagesConfig struct {
	Welcome        string `mapstructure:"welcome"         validate:"required"`
	Help           string `mapstructure:"help"            validate:"required"`
	ProvideMessage string `mapstructure:"provide_message" validate:"required"`
	GeneralError   string `mapstructure:"general_error"   validate:"required"`
}
