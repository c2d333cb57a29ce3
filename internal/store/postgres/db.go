package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/retry"
	_ "github.com/lib/pq"
)

const (
	dbStatementTimeoutMaxMS = 3_600_000

	// DefaultQueryTimeout is applied to individual non-transactional queries
	// to prevent runaway SQL from holding connections indefinitely.
	DefaultQueryTimeout = 30 * time.Second

	// LongQueryTimeout is used for bulk upserts and snapshot rebuilds.
	LongQueryTimeout = 5 * time.Minute
)

// Migrations holds the schema files applied by RunMigrations.
//
//go:embed migrations/*.up.sql
var Migrations embed.FS

// withTimeout returns a child context that will be cancelled after d.
// Callers must defer the returned CancelFunc.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

type DB struct {
	*sql.DB
	retry  retry.Policy
	logger *slog.Logger
}

type Config struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	StatementTimeoutMS int
	// Retry applies to the initial ping, transactions and queries.
	// Nil means retry.DefaultPolicy().
	Retry  *retry.Policy
	Logger *slog.Logger
}

// Wrap returns a DB over an already opened pool.
func Wrap(sqlDB *sql.DB, policy retry.Policy, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{DB: sqlDB, retry: policy, logger: logger}
}

func New(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.StatementTimeoutMS < 0 || cfg.StatementTimeoutMS > dbStatementTimeoutMaxMS {
		return nil, fmt.Errorf("statement timeout %d out of allowed range [0, %d]", cfg.StatementTimeoutMS, dbStatementTimeoutMaxMS)
	}

	connURL := cfg.URL
	if cfg.StatementTimeoutMS > 0 {
		connURL = appendStatementTimeout(connURL, cfg.StatementTimeoutMS)
	}

	db, err := sql.Open("postgres", connURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	} else {
		db.SetConnMaxIdleTime(2 * time.Minute)
	}

	policy := retry.DefaultPolicy()
	if cfg.Retry != nil {
		policy = *cfg.Retry
	}
	wrapped := Wrap(db, policy, cfg.Logger)
	if err := wrapped.retryDo(ctx, "ping", func(ctx context.Context) error {
		pingCtx, cancel := withTimeout(ctx, DefaultQueryTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return wrapped, nil
}

// retryDo runs fn under the database retry policy. Exhausted transient
// failures come back as *retry.DatabaseError.
func (db *DB) retryDo(ctx context.Context, op string, fn func(context.Context) error) error {
	_, err := retry.Do(ctx, db.retry, op, retry.KindDatabase, db.logger, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// queryRow scans a single row into dest, retrying transient failures.
func (db *DB) queryRow(ctx context.Context, op, query string, args []any, dest ...any) error {
	return db.retryDo(ctx, op, func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
		defer cancel()
		return db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
}

// appendStatementTimeout appends statement_timeout to the connection URL
// so it applies to all connections in the pool, not just one session.
func appendStatementTimeout(url string, timeoutMS int) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "options=-c%20statement_timeout%3D" + strconv.Itoa(timeoutMS)
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. A transient failure rolls back and
// replays the whole transaction, so fn must only write through tx.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return db.retryDo(ctx, "transaction", func(ctx context.Context) error {
		return db.runTx(ctx, fn)
	})
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RunMigrations executes the *.up.sql files of fsys in sorted order.
// It uses a schema_migrations table to track which migrations have been applied,
// ensuring each migration runs at most once.
func (db *DB) RunMigrations(ctx context.Context, fsys fs.FS) error {
	if err := db.retryDo(ctx, "create schema_migrations", func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version VARCHAR(255) PRIMARY KEY,
				applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`)
		return err
	}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := fsGlobUp(fsys)
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}

	for _, f := range files {
		version := path.Base(f)

		var exists bool
		if err := db.queryRow(ctx, "check migration",
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", []any{version}, &exists,
		); err != nil {
			return fmt.Errorf("check migration %s: %w", version, err)
		}
		if exists {
			continue
		}

		content, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", version, err)
		}

		slog.Info("migration starting", "version", version)
		migrationStart := time.Now()

		if err := db.applyMigration(ctx, version, string(content)); err != nil {
			return err
		}

		slog.Info("migration completed", "version", version, "elapsed", time.Since(migrationStart).String())
	}
	return nil
}

// fsGlobUp lists the up migrations of fsys in apply order.
func fsGlobUp(fsys fs.FS) ([]string, error) {
	files, err := fs.Glob(fsys, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (db *DB) applyMigration(ctx context.Context, version, content string) error {
	ctx, cancel := withTimeout(ctx, LongQueryTimeout)
	defer cancel()

	return db.WithTx(ctx, func(tx *sql.Tx) error {
		// Set lock_timeout to prevent migrations from waiting indefinitely on locks.
		if _, err := tx.ExecContext(ctx, "SET LOCAL lock_timeout = '10s'"); err != nil {
			return fmt.Errorf("set lock_timeout for migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, content); err != nil {
			return fmt.Errorf("exec migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)", version,
		); err != nil {
			return fmt.Errorf("record migration %s: %w", version, err)
		}
		return nil
	})
}
