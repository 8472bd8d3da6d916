package database

import (
	"strconv"
	"strings"
	"time"
)

// Exchange sources
const (
	SourceHTTP     = "http"
	SourceTelegram = "telegram"
)

// Exchange is one served chat request and the reply it got.
type Exchange struct {
	ID          int64     `db:"id"`
	Source      string    `db:"source"`
	RequestType string    `db:"request_type"`
	Message     string    `db:"message"`
	HasImage    bool      `db:"has_image"`
	Response    string    `db:"response"`
	ProductIDs  string    `db:"product_ids"` // comma-separated
	CreatedAt   time.Time `db:"created_at"`
}

// JoinProductIDs encodes product ids for the product_ids column.
func JoinProductIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// SplitProductIDs decodes the product_ids column. Malformed entries are skipped.
func SplitProductIDs(s string) []int {
	if s == "" {
		return []int{}
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
