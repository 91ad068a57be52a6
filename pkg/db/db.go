// Package db owns the single embedded database connection: schema
// migrations, the process-wide writer lock, and the handful of helpers
// every repository builds on. Nothing outside this package opens a
// *sql.DB of its own.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Config carries the parameters needed to open and migrate the store.
type Config struct {
	// Path is the sqlite file path, or ":memory:" for an ephemeral store.
	Path string
}

// DB wraps the single connection and the mutex that serializes every
// write. Reads share the same connection under the same mutex; this
// store is not a hot path for concurrent readers, so a plain
// sync.Mutex (not RWMutex) is enough and keeps the discipline simple.
type DB struct {
	conn   *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

// New opens the sqlite file in WAL mode with foreign keys enabled and
// runs pending migrations. The returned DB owns the connection
// exclusively; callers never reach for database/sql directly.
func New(cfg Config, logger *slog.Logger) (*DB, error) {
	l := logger.With(slog.String("component", "db"))

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", cfg.Path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		l.Error("failed to open database", slog.Any("error", err))
		return nil, ledgererr.Wrap(ledgererr.SqlError, "open database", err)
	}

	// A single physical connection matches the single-writer-mutex
	// discipline: there is never a second goroutine contending for a
	// pooled connection the mutex isn't already protecting.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		l.Error("failed to ping database", slog.Any("error", err))
		return nil, ledgererr.Wrap(ledgererr.SqlError, "ping database", err)
	}

	store := &DB{conn: conn, logger: l}

	if err := store.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	l.Info("database connected and migrations completed successfully")
	return store, nil
}

// RunMigrations applies every pending migration under migrations/. It is
// idempotent: goose tracks applied versions in its own bookkeeping table,
// so re-invoking it on an already-current database is a no-op.
func (d *DB) RunMigrations() error {
	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return ledgererr.Wrap(ledgererr.SqlError, "set migration dialect", err)
	}

	if err := goose.Up(d.conn, "migrations"); err != nil {
		return ledgererr.Wrap(ledgererr.SqlError, "apply migrations", err)
	}
	return nil
}

// WithWrite acquires the writer mutex, opens a transaction, and runs fn.
// fn's error (if any) rolls the transaction back; otherwise it commits.
// The mutex is released before WithWrite returns, never across a
// suspension point outside of this call.
func (d *DB) WithWrite(ctx context.Context, fn func(tx *sql.Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return ledgererr.Wrap(ledgererr.DatabaseLockError, "begin write transaction", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			d.logger.Error("rollback failed", slog.Any("error", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return ledgererr.Wrap(ledgererr.SqlError, "commit write transaction", err)
	}
	return nil
}

// WithRead acquires the same mutex a write would, for callers that need a
// consistent snapshot across several statements. Most single-statement
// reads should just call Conn() directly instead.
func (d *DB) WithRead(ctx context.Context, fn func(conn *sql.DB) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.conn)
}

// Conn exposes the raw connection for single-statement reads that don't
// need the full mutex discipline of WithRead (database/sql already
// serializes against the single open connection).
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// Health reports whether the connection is reachable.
func (d *DB) Health(ctx context.Context) error {
	if err := d.conn.PingContext(ctx); err != nil {
		return ledgererr.Wrap(ledgererr.SqlError, "health check", err)
	}
	return nil
}

// Close releases the underlying connection. Called once, after every
// in-flight request task has completed.
func (d *DB) Close() error {
	return d.conn.Close()
}
