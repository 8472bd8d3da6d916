package completion

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/edgard/commerce-agent/internal/config"
)

// NewClient creates the completion Client selected by cfg.Backend.
// A missing API key is not an error here: the returned client fails every
// call with ErrMissingAPIKey instead.
func NewClient(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "completion_client", "backend", cfg.Backend)

	switch cfg.Backend {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	if cfg.APIKey == "" {
		log.Warn("No completion API key configured, completion requests will fail")
		return unavailableClient{err: ErrMissingAPIKey}, nil
	}

	switch cfg.Backend {
	case "gemini":
		client, err := newGeminiClient(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	default:
		return newOpenAIClient(cfg, log), nil
	}
}
