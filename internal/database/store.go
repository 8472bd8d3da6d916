package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the exchange log operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveExchange inserts a new exchange and sets its ID.
	SaveExchange(ctx context.Context, exchange *Exchange) error

	// CountExchanges returns the number of stored exchanges.
	CountExchanges(ctx context.Context) (int64, error)

	// DeleteExchangesBefore removes exchanges created before cutoff and
	// returns how many were deleted.
	DeleteExchangesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Verify pings store and returns the number of exchanges it holds. It is
// meant to be called once at startup, before the store is handed out.
func Verify(ctx context.Context, store Store) (int64, error) {
	if err := store.Ping(ctx); err != nil {
		return 0, fmt.Errorf("failed to ping database: %w", err)
	}
	return store.CountExchanges(ctx)
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveExchange(ctx context.Context, exchange *Exchange) error {
	if exchange == nil {
		return errors.New("cannot save nil exchange")
	}
	if exchange.Source == "" {
		return errors.New("exchange must have a source")
	}
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO exchanges (source, request_type, message, has_image, response, product_ids, created_at)
        VALUES (:source, :request_type, :message, :has_image, :response, :product_ids, :created_at);
    `

	result, err := tx.NamedExecContext(ctx, query, exchange)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving exchange", "source", exchange.Source, "error", err)
		return fmt.Errorf("failed to save exchange: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		exchange.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving exchange", "error", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Exchange saved", "exchange_id", exchange.ID, "request_type", exchange.RequestType)
	return nil
}

func (s *sqlxStore) CountExchanges(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM exchanges;"); err != nil {
		return 0, fmt.Errorf("failed to count exchanges: %w", err)
	}
	return count, nil
}

func (s *sqlxStore) DeleteExchangesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM exchanges WHERE created_at < ?;", cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete old exchanges", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete exchanges before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	s.logger.InfoContext(ctx, "Deleted old exchanges", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}

// RunSQLMaintenance executes VACUUM on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context done before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	// VACUUM cannot run inside a transaction
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
