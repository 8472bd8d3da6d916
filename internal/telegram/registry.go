package telegram

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-telegram/bot"

	"github.com/edgard/commerce-agent/internal/chat"
	"github.com/edgard/commerce-agent/internal/config"
)

// Processor handles chat requests.
type Processor interface {
	Process(ctx context.Context, req chat.Request) chat.Response
}

// HandlerDeps provides the dependencies of the Telegram handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Messages  config.MessagesConfig
	Processor Processor
	Recorder  chat.Recorder
	// HTTPClient downloads photos. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

func (d HandlerDeps) withDefaults() HandlerDeps {
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Recorder == nil {
		d.Recorder = chat.NopRecorder{}
	}
	if d.HTTPClient == nil {
		d.HTTPClient = http.DefaultClient
	}
	return d
}

// RegisteredHandler is a handler with the pattern it is registered under.
type RegisteredHandler struct {
	HandlerType bot.HandlerType
	Pattern     string
	Handler     bot.HandlerFunc
	Middleware  []bot.Middleware
	MatchType   bot.MatchType
}

// RegisterAllCommands returns the command handlers keyed by command.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	deps = deps.withDefaults()

	return map[string]RegisteredHandler{
		"/start": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "start",
			Handler:     newTextHandler(deps, "start", deps.Messages.Welcome),
			MatchType:   bot.MatchTypeCommandStartOnly,
		},
		"/help": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "help",
			Handler:     newTextHandler(deps, "help", deps.Messages.Help),
			MatchType:   bot.MatchTypeCommandStartOnly,
		},
		"/recommend": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "recommend",
			Handler:     NewRecommendHandler(deps),
			MatchType:   bot.MatchTypeCommandStartOnly,
		},
	}
}
