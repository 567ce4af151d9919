package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Options controls connection pooling and startup retries
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	MaxRetries   int
	RetryDelay   time.Duration
}

// NewConnection opens a Postgres pool and waits until the server answers
func NewConnection(ctx context.Context, databaseURL string, opts Options, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}

	if err := waitForDatabase(ctx, db, opts.MaxRetries, opts.RetryDelay, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("connected to database")
	return db, nil
}

// waitForDatabase pings until success, giving up after attempts tries
func waitForDatabase(ctx context.Context, db *sql.DB, attempts int, delay time.Duration, logger *zap.Logger) error {
	attempts = max(1, attempts)
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(max(delay, time.Millisecond)))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			if attempt < attempts {
				logger.Warn("database not ready, retrying",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", attempts),
					zap.Duration("retry_in", delay),
					zap.Error(err),
				)
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("failed to ping database: %w", ctx.Err())
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}

// RunMigrations applies the embedded goose migrations
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
