package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edgard/commerce-agent/internal/config"
	"github.com/edgard/commerce-agent/internal/database"
)

type fakeStore struct {
	database.Store
	cutoff    time.Time
	deleteErr error
	countErr  error
	vacuumErr error
	vacuumed  int
	deletes   int
	counts    int
}

func (f *fakeStore) DeleteExchangesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.deletes++
	f.cutoff = cutoff
	return 2, f.deleteErr
}

func (f *fakeStore) CountExchanges(context.Context) (int64, error) {
	f.counts++
	return 5, f.countErr
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error {
	f.vacuumed++
	return f.vacuumErr
}

func newDeps(store *fakeStore, retention time.Duration, now time.Time) TaskDeps {
	cfg := &config.Config{}
	cfg.Exchanges.Retention = retention
	return TaskDeps{
		Store:  store,
		Config: cfg,
		Now:    func() time.Time { return now },
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	got := RegisterAllTasks(newDeps(&fakeStore{}, time.Hour, time.Now()))
	for _, name := range []string{ExchangeRetention, SQLMaintenance} {
		if got[name] == nil {
			t.Errorf("task %q not registered", name)
		}
	}
	for name := range config.DefaultTasks {
		if got[name] == nil {
			t.Errorf("default task %q has no implementation", name)
		}
	}
}

func TestExchangeRetentionTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 3, 30, 0, 0, time.UTC)

	t.Run("deletes before cutoff", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		task := RegisterAllTasks(newDeps(store, 48*time.Hour, now))[ExchangeRetention]

		if err := task(context.Background()); err != nil {
			t.Fatalf("task: %v", err)
		}
		if want := now.Add(-48 * time.Hour); !store.cutoff.Equal(want) {
			t.Errorf("cutoff = %v, want %v", store.cutoff, want)
		}
		if store.counts != 1 {
			t.Errorf("counts = %d, want 1", store.counts)
		}
	})

	t.Run("zero retention keeps everything", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		task := RegisterAllTasks(newDeps(store, 0, now))[ExchangeRetention]

		if err := task(context.Background()); err != nil {
			t.Fatalf("task: %v", err)
		}
		if store.deletes != 0 || store.counts != 0 {
			t.Errorf("deletes = %d counts = %d, want 0", store.deletes, store.counts)
		}
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("disk full")
		store := &fakeStore{deleteErr: boom}
		task := RegisterAllTasks(newDeps(store, time.Hour, now))[ExchangeRetention]

		if err := task(context.Background()); !errors.Is(err, boom) {
			t.Errorf("err = %v, want %v", err, boom)
		}
		if store.counts != 0 {
			t.Errorf("counts = %d, want 0", store.counts)
		}
	})

	t.Run("count error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection reset")
		store := &fakeStore{countErr: boom}
		task := RegisterAllTasks(newDeps(store, time.Hour, now))[ExchangeRetention]

		if err := task(context.Background()); !errors.Is(err, boom) {
			t.Errorf("err = %v, want %v", err, boom)
		}
	})
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	task := RegisterAllTasks(newDeps(store, time.Hour, time.Now()))[SQLMaintenance]
	if err := task(context.Background()); err != nil {
		t.Fatalf("task: %v", err)
	}
	if store.vacuumed != 1 {
		t.Errorf("vacuumed = %d, want 1", store.vacuumed)
	}

	boom := errors.New("locked")
	failing := RegisterAllTasks(newDeps(&fakeStore{vacuumErr: boom}, time.Hour, time.Now()))[SQLMaintenance]
	if err := failing(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
