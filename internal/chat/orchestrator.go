package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/edgard/commerce-agent/internal/catalog"
	"github.com/edgard/commerce-agent/internal/completion"
	"github.com/edgard/commerce-agent/internal/matcher"
)

// ErrImageRequired is reported when an image search carries no image.
var ErrImageRequired = errors.New("an image is required for product_search_image requests")

// Orchestrator dispatches chat requests. It holds no per-request state and
// is safe for concurrent use.
type Orchestrator struct {
	client  completion.Client
	catalog *catalog.Catalog
	log     *slog.Logger
}

// NewOrchestrator creates an Orchestrator over a completion client and a
// loaded catalog.
func NewOrchestrator(client completion.Client, products *catalog.Catalog, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		client:  client,
		catalog: products,
		log:     logger.With("component", "chat_orchestrator"),
	}
}

// Process handles one request. It never fails: completion errors are turned
// into an apology response with no products.
func (o *Orchestrator) Process(ctx context.Context, req Request) Response {
	log := o.log.With("type", req.Type)
	log.DebugContext(ctx, "Processing chat request", "message_length", len(req.Message))

	switch req.Type {
	case TypeGeneralConversation:
		return o.generalConversation(ctx, req.Message)
	case TypeProductRecommendationText:
		return o.textRecommendation(ctx, req.Message)
	case TypeProductSearchImage:
		return o.imageSearch(ctx, req.Image)
	default:
		log.InfoContext(ctx, "Unknown chat request type")
		return Response{Response: unknownTypeMsg, Products: []catalog.Product{}}
	}
}

func (o *Orchestrator) generalConversation(ctx context.Context, message string) Response {
	res := o.client.Complete(ctx, generalSystemPrompt, message)
	if !res.OK() {
		return o.failure(ctx, TypeGeneralConversation, res.Err)
	}
	return Response{Response: res.Text, Products: []catalog.Product{}}
}

func (o *Orchestrator) textRecommendation(ctx context.Context, message string) Response {
	res := o.client.Complete(ctx, textKeywordPrompt, message)
	if !res.OK() {
		return o.failure(ctx, TypeProductRecommendationText, res.Err)
	}
	return o.recommend(ctx, res.Text)
}

func (o *Orchestrator) imageSearch(ctx context.Context, image *string) Response {
	if image == nil || strings.TrimSpace(*image) == "" {
		return o.failure(ctx, TypeProductSearchImage, ErrImageRequired)
	}

	ref := completion.NewImageRef(*image)
	res := o.client.CompleteWithImage(ctx, imageKeywordPrompt, ref, imageMaxOutputTokens)
	if !res.OK() {
		return o.failure(ctx, TypeProductSearchImage, res.Err)
	}
	return o.recommend(ctx, res.Text)
}

// recommend ranks the catalog against the comma-separated keywords returned
// by the model.
func (o *Orchestrator) recommend(ctx context.Context, keywords string) Response {
	terms := matcher.ParseTerms(keywords)
	products := matcher.Rank(terms, o.catalog.All())

	o.log.InfoContext(ctx, "Ranked catalog products",
		"terms", terms,
		"catalog_size", o.catalog.Len(),
		"matches", len(products))

	return Response{Response: matcher.Summary(len(products)), Products: products}
}

func (o *Orchestrator) failure(ctx context.Context, reqType RequestType, err error) Response {
	o.log.ErrorContext(ctx, "Chat request failed", "type", reqType, "error", err)
	return Response{
		Response: fmt.Sprintf(errorMsgFormat, err.Error()),
		Products: []catalog.Product{},
	}
}
