// Package catalog holds the read-only product catalog served by the agent.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Rating is the aggregated customer rating of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a single catalog entry. Tags are used only for keyword matching.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Rating      Rating   `json:"rating"`
	Tags        []string `json:"tags"`
}

// Catalog is an immutable, ordered set of products. It is safe for concurrent use
// because nothing mutates it after construction.
type Catalog struct {
	products []Product
}

// New builds a catalog from the given products, preserving their order.
func New(products []Product) *Catalog {
	cp := make([]Product, len(products))
	for i, p := range products {
		if p.Tags == nil {
			p.Tags = []string{}
		}
		cp[i] = p
	}
	return &Catalog{products: cp}
}

// Load reads the catalog file at path. Load never fails: a missing or corrupt
// file is logged and an empty catalog is returned.
func Load(path string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "catalog")

	products, err := ReadFile(path)
	if err != nil {
		log.Error("Failed to load product catalog, continuing with an empty catalog", "path", path, "error", err)
		return New(nil)
	}

	log.Info("Product catalog loaded", "path", path, "products", len(products))
	return New(products)
}

// ReadFile decodes a JSON array of products from path.
func ReadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return products, nil
}

// Save writes products to path as an indented JSON array, creating parent
// directories as needed. The file is replaced atomically via rename.
func Save(path string, products []Product) error {
	if products == nil {
		products = []Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}
	return nil
}

// All returns the products in catalog order. Callers must not modify the
// returned slice or its elements.
func (c *Catalog) All() []Product {
	if c == nil {
		return nil
	}
	return c.products
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}
