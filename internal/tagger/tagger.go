// Package tagger builds the product catalog file: it fetches source products
// and asks the completion backend for search tags for each of them.
package tagger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/commerce-agent/internal/catalog"
	"github.com/edgard/commerce-agent/internal/completion"
)

// Tagger fetches and tags catalog products.
type Tagger struct {
	client      completion.Client
	httpClient  *http.Client
	sourceURL   string
	concurrency int
	log         *slog.Logger
}

// Option configures a Tagger.
type Option func(*Tagger)

// WithHTTPClient sets the client used to fetch source products.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tagger) { t.httpClient = c }
}

// WithConcurrency sets how many products are tagged in parallel.
func WithConcurrency(n int) Option {
	return func(t *Tagger) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// New creates a Tagger reading products from sourceURL.
func New(client completion.Client, sourceURL string, logger *slog.Logger, opts ...Option) *Tagger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &Tagger{
		client:      client,
		httpClient:  http.DefaultClient,
		sourceURL:   sourceURL,
		concurrency: 1,
		log:         logger.With("component", "tagger"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fetch downloads the source product list. Source products carry no tags.
func (t *Tagger) Fetch(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch products: status %d", resp.StatusCode)
	}

	var products []catalog.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	t.log.InfoContext(ctx, "Fetched source products", "count", len(products), "url", t.sourceURL)
	return products, nil
}

// Tag generates tags for every product, preserving order. A product whose
// tag generation fails gets no tags; only context cancellation aborts.
func (t *Tagger) Tag(ctx context.Context, products []catalog.Product) ([]catalog.Product, error) {
	tagged := make([]catalog.Product, len(products))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for i, p := range products {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			tags, err := completion.GenerateTags(gCtx, t.client, p.Title, p.Description)
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				t.log.WarnContext(gCtx, "Failed to generate product tags", "product_id", p.ID, "error", err)
			}
			if tags == nil {
				tags = []string{}
			}

			p.Tags = tags
			tagged[i] = p
			t.log.DebugContext(gCtx, "Tagged product", "index", i+1, "total", len(products), "product_id", p.ID, "tags", len(tags))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tagging aborted: %w", err)
	}
	return tagged, nil
}

// Run fetches, tags and writes the products to path.
func (t *Tagger) Run(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, errors.New("catalog path is empty")
	}

	products, err := t.Fetch(ctx)
	if err != nil {
		return 0, err
	}

	tagged, err := t.Tag(ctx, products)
	if err != nil {
		return 0, err
	}

	if err := catalog.Save(path, tagged); err != nil {
		return 0, err
	}

	t.log.InfoContext(ctx, "Saved tagged catalog", "path", path, "count", len(tagged))
	return len(tagged), nil
}
