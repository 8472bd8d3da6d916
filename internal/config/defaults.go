package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"

	DefaultServerAddress         = ":8000"
	DefaultServerReadTimeout     = 30 * time.Second
	DefaultServerWriteTimeout    = 3 * time.Minute
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultAIBackend     = "openai"
	DefaultAIModel       = "gpt-4o"
	DefaultAITemperature = 1.0
	DefaultAITimeout     = 2 * time.Minute

	DefaultCatalogPath = "data/products.json"

	DefaultDatabasePath = "storage.db"

	DefaultExchangeRetention = 30 * 24 * time.Hour

	DefaultProxyUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultProxyReferer   = "https://fakestoreapi.com/"
	DefaultProxyTimeout   = 30 * time.Second

	DefaultTaggerSourceURL   = "https://fakestoreapi.com/products"
	DefaultTaggerConcurrency = 4
)

// DefaultAllowedOrigins lists the front-end origins allowed by CORS.
var DefaultAllowedOrigins = []string{"http://localhost:3000"}

// DefaultTasks are the scheduled tasks known to the application.
var DefaultTasks = map[string]TaskConfig{
	"exchange_retention": {Enabled: true, Schedule: "0 30 3 * * *"},
	"sql_maintenance":    {Enabled: true, Schedule: "0 0 4 * * 0"},
}

// Default Telegram messages
var DefaultMessages = MessagesConfig{
	Welcome:        "👋 Welcome! Send me a message to chat, a photo to find similar products, or use /recommend followed by what you are looking for.",
	Help:           "/recommend <request> - product recommendations\nSend a photo - find similar products\nAny other message - chat with the assistant",
	ProvideMessage: "ℹ️ Please tell me what you are looking for, e.g. /recommend a t-shirt for sports",
	GeneralError:   "❌ An error occurred. Please try again later.",
}
