package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/edgard/commerce-agent/internal/catalog"
	"github.com/edgard/commerce-agent/internal/database"
)

type memoryStore struct {
	database.Store
	saved []database.Exchange
	err   error
}

func (m *memoryStore) SaveExchange(_ context.Context, ex *database.Exchange) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *ex)
	return nil
}

func TestStoreRecorder(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	rec := NewStoreRecorder(store, nil)

	rec.Record(context.Background(), database.SourceHTTP,
		Request{Message: "find", Type: TypeProductSearchImage, Image: strPtr("https://img")},
		Response{Response: "I found 2 products that match your request!", Products: []catalog.Product{{ID: 4}, {ID: 2}}})

	if len(store.saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(store.saved))
	}
	got := store.saved[0]
	if got.Source != database.SourceHTTP || got.RequestType != string(TypeProductSearchImage) {
		t.Errorf("unexpected exchange %+v", got)
	}
	if !got.HasImage || got.ProductIDs != "4,2" {
		t.Errorf("image=%v ids=%q", got.HasImage, got.ProductIDs)
	}
}

func TestStoreRecorderSwallowsErrors(t *testing.T) {
	t.Parallel()

	rec := NewStoreRecorder(&memoryStore{err: errors.New("database is locked")}, nil)
	rec.Record(context.Background(), database.SourceTelegram, Request{Message: "x"}, Response{})
	NopRecorder{}.Record(context.Background(), database.SourceHTTP, Request{}, Response{})
}
