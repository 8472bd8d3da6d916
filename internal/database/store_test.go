package database

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil)
}

func TestStoreExchanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, msg := range []string{"old", "middle", "new"} {
		ex := &Exchange{
			Source:      SourceHTTP,
			RequestType: "product_recommendation_text",
			Message:     msg,
			Response:    "I found 1 products that match your request!",
			ProductIDs:  JoinProductIDs([]int{i + 1}),
			CreatedAt:   base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if err := store.SaveExchange(ctx, ex); err != nil {
			t.Fatalf("SaveExchange(%s): %v", msg, err)
		}
		if ex.ID == 0 {
			t.Errorf("SaveExchange(%s) did not set ID", msg)
		}
	}

	count, err := store.CountExchanges(ctx)
	if err != nil || count != 3 {
		t.Fatalf("CountExchanges = %d, %v; want 3", count, err)
	}

	deleted, err := store.DeleteExchangesBefore(ctx, base.Add(36*time.Hour))
	if err != nil {
		t.Fatalf("DeleteExchangesBefore: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	if err := store.RunSQLMaintenance(ctx); err != nil {
		t.Errorf("RunSQLMaintenance: %v", err)
	}

	count, _ = store.CountExchanges(ctx)
	if count != 1 {
		t.Errorf("count after retention = %d, want 1", count)
	}

	var kept Exchange
	db := store.(*sqlxStore).db
	if err := db.GetContext(ctx, &kept, "SELECT * FROM exchanges;"); err != nil {
		t.Fatalf("select remaining exchange: %v", err)
	}
	if kept.Message != "new" || kept.Source != SourceHTTP {
		t.Errorf("remaining exchange = %+v", kept)
	}
	if got := SplitProductIDs(kept.ProductIDs); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("product ids = %v, want [3]", got)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	count, err := Verify(ctx, store)
	if err != nil || count != 0 {
		t.Fatalf("Verify(empty) = %d, %v; want 0, nil", count, err)
	}
	if err := store.SaveExchange(ctx, &Exchange{Source: SourceTelegram, Message: "hi"}); err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}
	if count, err = Verify(ctx, store); err != nil || count != 1 {
		t.Errorf("Verify = %d, %v; want 1, nil", count, err)
	}

	db, err := NewDB(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	CloseDB(db)
	if _, err := Verify(ctx, NewStore(db, nil)); err == nil {
		t.Error("Verify on closed database returned nil error")
	}
}

func TestSaveExchangeValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveExchange(ctx, nil); err == nil {
		t.Error("expected error for nil exchange")
	}
	if err := store.SaveExchange(ctx, &Exchange{Message: "x"}); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestProductIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []int
	}{
		{name: "empty", in: "", want: []int{}},
		{name: "single", in: "4", want: []int{4}},
		{name: "several", in: "4,1,9", want: []int{4, 1, 9}},
		{name: "malformed entries skipped", in: "4,x,9", want: []int{4, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SplitProductIDs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitProductIDs(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := JoinProductIDs([]int{3, 1}); got != "3,1" {
		t.Errorf("JoinProductIDs = %q", got)
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"storage.db":                  "storage.db",
		"file:storage.db?_pragma=foo": "storage.db",
		"file:my%20data/storage.db":   "my data/storage.db",
	}
	for in, want := range tests {
		if got := ExtractDBNameFromPath(in); got != want {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
