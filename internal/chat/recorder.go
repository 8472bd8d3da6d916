package chat

import (
	"context"
	"io"
	"log/slog"

	"github.com/edgard/commerce-agent/internal/database"
)

// Recorder persists served exchanges. Implementations must not fail the
// request they record.
type Recorder interface {
	Record(ctx context.Context, source string, req Request, resp Response)
}

// NopRecorder discards every exchange.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, string, Request, Response) {}

// StoreRecorder writes exchanges to the database exchange log.
type StoreRecorder struct {
	store database.Store
	log   *slog.Logger
}

// NewStoreRecorder creates a Recorder backed by store.
func NewStoreRecorder(store database.Store, logger *slog.Logger) *StoreRecorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StoreRecorder{store: store, log: logger.With("component", "exchange_recorder")}
}

// Record saves the exchange. Errors are logged and dropped.
func (r *StoreRecorder) Record(ctx context.Context, source string, req Request, resp Response) {
	ids := make([]int, len(resp.Products))
	for i, p := range resp.Products {
		ids[i] = p.ID
	}

	ex := &database.Exchange{
		Source:      source,
		RequestType: string(req.Type),
		Message:     req.Message,
		HasImage:    req.Image != nil && *req.Image != "",
		Response:    resp.Response,
		ProductIDs:  database.JoinProductIDs(ids),
	}
	if err := r.store.SaveExchange(ctx, ex); err != nil {
		r.log.WarnContext(ctx, "Failed to record exchange", "source", source, "error", err)
	}
}
