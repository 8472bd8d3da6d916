// Package matcher ranks catalog products against free-text search terms.
//
// Matching is case-insensitive substring matching of each term against a
// product's tags. Substring matching tolerates plural and compound-word
// variation between model-generated terms and curated tags; it also produces
// false positives such as "red" matching "bored".
package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/edgard/commerce-agent/internal/catalog"
)

// MaxResults is the maximum number of products Rank returns.
const MaxResults = 3

const (
	foundFormat = "I found %d products that match your request!"
	notFoundMsg = "Sorry, I couldn't find any matching products."
)

// ParseTerms splits a comma-separated keyword list and trims each piece.
func ParseTerms(s string) []string {
	pieces := strings.Split(s, ",")
	terms := make([]string, 0, len(pieces))
	for _, p := range pieces {
		terms = append(terms, strings.TrimSpace(p))
	}
	return terms
}

// MatchCount returns the number of terms for which at least one of the
// product's tags contains the term, ignoring case.
func MatchCount(terms []string, p catalog.Product) int {
	if len(terms) == 0 || len(p.Tags) == 0 {
		return 0
	}

	tags := make([]string, len(p.Tags))
	for i, tag := range p.Tags {
		tags[i] = strings.ToLower(tag)
	}

	count := 0
	for _, term := range terms {
		needle := strings.ToLower(term)
		for _, tag := range tags {
			if strings.Contains(tag, needle) {
				count++
				break
			}
		}
	}
	return count
}

type scored struct {
	product catalog.Product
	count   int
}

// Rank returns at most MaxResults products ordered by match count, best first.
// Products without any match are dropped. Ties keep catalog order.
func Rank(terms []string, products []catalog.Product) []catalog.Product {
	var matches []scored
	for _, p := range products {
		if n := MatchCount(terms, p); n > 0 {
			matches = append(matches, scored{product: p, count: n})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].count > matches[j].count
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}

	result := make([]catalog.Product, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.product)
	}
	return result
}

// Summary is the user-facing text describing a ranking result of n products.
func Summary(n int) string {
	if n > 0 {
		return fmt.Sprintf(foundFormat, n)
	}
	return notFoundMsg
}
