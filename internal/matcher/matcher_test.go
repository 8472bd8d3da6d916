package matcher_test

import (
	"reflect"
	"testing"

	"github.com/edgard/commerce-agent/internal/catalog"
	"github.com/edgard/commerce-agent/internal/matcher"
)

func product(id int, tags ...string) catalog.Product {
	return catalog.Product{ID: id, Title: "product", Tags: tags}
}

func ids(products []catalog.Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		terms    []string
		products []catalog.Product
		want     []int
	}{
		{
			name:     "empty terms",
			terms:    nil,
			products: []catalog.Product{product(1, "red")},
			want:     []int{},
		},
		{
			name:     "empty catalog",
			terms:    []string{"red"},
			products: nil,
			want:     []int{},
		},
		{
			name:     "stable order for equal counts",
			terms:    []string{"shirt"},
			products: []catalog.Product{product(1, "t-shirt"), product(2, "jacket"), product(3, "Shirts")},
			want:     []int{1, 3},
		},
		{
			name:     "case-insensitive substring",
			terms:    []string{"red"},
			products: []catalog.Product{product(1, "Red-Sneaker")},
			want:     []int{1},
		},
		{
			name:     "substring false positive is kept",
			terms:    []string{"red"},
			products: []catalog.Product{product(1, "bored")},
			want:     []int{1},
		},
		{
			name:  "higher count first",
			terms: []string{"cotton", "sports", "shirt"},
			products: []catalog.Product{
				product(1, "cotton"),
				product(2, "sports", "t-shirt", "cotton"),
				product(3, "sports", "shirt"),
			},
			want: []int{2, 3, 1},
		},
		{
			name:  "truncated to three",
			terms: []string{"bag"},
			products: []catalog.Product{
				product(1, "bag"), product(2, "handbag"), product(3, "bags"), product(4, "Bag"),
			},
			want: []int{1, 2, 3},
		},
		{
			name:  "truncation keeps best counts",
			terms: []string{"gold", "ring"},
			products: []catalog.Product{
				product(1, "gold"), product(2, "gold"), product(3, "gold"), product(4, "gold ring"), product(5, "ring", "golden"),
			},
			want: []int{4, 5, 1},
		},
		{
			name:     "term counted once even if many tags match",
			terms:    []string{"shirt", "blue"},
			products: []catalog.Product{product(1, "shirt", "t-shirt", "sweatshirt"), product(2, "shirt", "blue")},
			want:     []int{2, 1},
		},
		{
			name:     "product without tags never matches",
			terms:    []string{"anything"},
			products: []catalog.Product{product(1)},
			want:     []int{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := matcher.Rank(tc.terms, tc.products)
			if got == nil {
				t.Fatal("Rank() returned nil, want empty slice")
			}
			if !reflect.DeepEqual(ids(got), tc.want) {
				t.Errorf("Rank() ids = %v, want %v", ids(got), tc.want)
			}
		})
	}
}

func TestRankNeverReturnsUnmatched(t *testing.T) {
	t.Parallel()

	terms := []string{"wool", "winter"}
	products := []catalog.Product{
		product(1, "summer"), product(2, "woolen"), product(3), product(4, "WINTER coat"), product(5, "wool", "winter"),
	}
	got := matcher.Rank(terms, products)
	if len(got) > matcher.MaxResults {
		t.Fatalf("Rank() returned %d products, max is %d", len(got), matcher.MaxResults)
	}
	for _, p := range got {
		if matcher.MatchCount(terms, p) < 1 {
			t.Errorf("product %d returned with zero matches", p.ID)
		}
	}
}

func TestMatchCount(t *testing.T) {
	t.Parallel()

	p := product(1, "red", "athletic", "t-shirt", "sports", "nike")
	tests := []struct {
		terms []string
		want  int
	}{
		{[]string{"t-shirt", "sports"}, 2},
		{[]string{"T-SHIRT"}, 1},
		{[]string{"shirt", "t-shirt"}, 2},
		{[]string{"adidas"}, 0},
		{nil, 0},
	}
	for _, tc := range tests {
		if got := matcher.MatchCount(tc.terms, p); got != tc.want {
			t.Errorf("MatchCount(%q) = %d, want %d", tc.terms, got, tc.want)
		}
	}
}

func TestParseTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"t-shirt, sports", []string{"t-shirt", "sports"}},
		{"  red ,blue,  green  ", []string{"red", "blue", "green"}},
		{"single", []string{"single"}},
		{"a,,b", []string{"a", "", "b"}},
	}
	for _, tc := range tests {
		if got := matcher.ParseTerms(tc.input); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseTerms(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	if got := matcher.Summary(0); got != "Sorry, I couldn't find any matching products." {
		t.Errorf("Summary(0) = %q", got)
	}
	if got := matcher.Summary(1); got != "I found 1 products that match your request!" {
		t.Errorf("Summary(1) = %q", got)
	}
	if got := matcher.Summary(len(matcher.Rank(nil, nil))); got != "Sorry, I couldn't find any matching products." {
		t.Errorf("Summary of empty rank = %q", got)
	}
}
