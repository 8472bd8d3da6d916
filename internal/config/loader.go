package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
const EnvPrefix = "COMMERCE"

// ErrConfiguration wraps every error returned by LoadConfig.
var ErrConfiguration = errors.New("configuration error")

// LoadConfig loads and validates configuration from, in increasing priority:
//  1. default values
//  2. the YAML file at path (optional)
//  3. a .env file in the working directory (optional)
//  4. COMMERCE_* environment variables
//
// When ai.api_key is still empty, the backend's conventional variable
// (OPENAI_API_KEY or GEMINI_API_KEY) is used.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
			}
			// Config file not found is okay, we'll use defaults
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv(backendKeyVar(cfg.AI.Backend))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func backendKeyVar(backend string) string {
	switch backend {
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// setDefaults registers every key with viper. Keys unknown to viper are not
// picked up from the environment by Unmarshal, so each key needs a default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("server.address", DefaultServerAddress)
	v.SetDefault("server.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)

	v.SetDefault("ai.backend", DefaultAIBackend)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", DefaultAIModel)
	v.SetDefault("ai.temperature", DefaultAITemperature)
	v.SetDefault("ai.timeout", DefaultAITimeout)

	v.SetDefault("catalog.path", DefaultCatalogPath)

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("exchanges.retention", DefaultExchangeRetention)

	tasks := make(map[string]any, len(DefaultTasks))
	for name, task := range DefaultTasks {
		tasks[name] = map[string]any{"enabled": task.Enabled, "schedule": task.Schedule}
	}
	v.SetDefault("scheduler.tasks", tasks)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")

	v.SetDefault("proxy.user_agent", DefaultProxyUserAgent)
	v.SetDefault("proxy.referer", DefaultProxyReferer)
	v.SetDefault("proxy.timeout", DefaultProxyTimeout)

	v.SetDefault("tagger.source_url", DefaultTaggerSourceURL)
	v.SetDefault("tagger.concurrency", DefaultTaggerConcurrency)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.provide_message", DefaultMessages.ProvideMessage)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
}
