// Package sql provides a SQL-backed counter store for MySQL and SQLite.
// The increment relies on a single-statement upsert so concurrent
// violations for the same author are both counted.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	reviewpipe "github.com/heibot/reviewpipe"
	"github.com/heibot/reviewpipe/ledger"
)

// Dialect selects the SQL flavor.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// Config holds the connection settings for the SQL counter store.
type Config struct {
	Dialect         Dialect
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the default SQL store configuration.
func DefaultConfig() Config {
	return Config{
		Dialect:         DialectMySQL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Store implements ledger.CounterStore over database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New opens a connection and creates the store.
func New(cfg Config) (*Store, error) {
	db, err := sql.Open(string(cfg.Dialect), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewWithDB(db, cfg.Dialect), nil
}

// NewWithDB creates a store over an existing connection.
func NewWithDB(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Migrate creates the violations table when absent.
func (s *Store) Migrate(ctx context.Context) error {
	var ddl string
	switch s.dialect {
	case DialectSQLite:
		ddl = `CREATE TABLE IF NOT EXISTS reviewer_violations (
			reviewer_id TEXT PRIMARY KEY,
			violation_count INTEGER NOT NULL DEFAULT 0,
			is_banned INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL DEFAULT 0
		)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS reviewer_violations (
			reviewer_id VARCHAR(128) PRIMARY KEY,
			violation_count BIGINT NOT NULL DEFAULT 0,
			is_banned BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at BIGINT NOT NULL DEFAULT 0
		)`
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return reviewpipe.NewCollaboratorError("counter", "migrate", err)
	}
	return nil
}

// IncrementAndGet implements ledger.CounterStore.
func (s *Store) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	now := time.Now().Unix()

	switch s.dialect {
	case DialectSQLite:
		var count int64
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO reviewer_violations (reviewer_id, violation_count, updated_at)
			 VALUES (?, 1, ?)
			 ON CONFLICT(reviewer_id)
			 DO UPDATE SET violation_count = violation_count + 1, updated_at = excluded.updated_at
			 RETURNING violation_count`,
			key, now).Scan(&count)
		if err != nil {
			return 0, reviewpipe.NewCollaboratorError("counter", "increment", err)
		}
		return count, nil

	default:
		// LAST_INSERT_ID carries the post-increment count out of the
		// upsert; a fresh row reports one affected row and count 1.
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO reviewer_violations (reviewer_id, violation_count, updated_at)
			 VALUES (?, 1, ?)
			 ON DUPLICATE KEY UPDATE
			 violation_count = LAST_INSERT_ID(violation_count + 1), updated_at = VALUES(updated_at)`,
			key, now)
		if err != nil {
			return 0, reviewpipe.NewCollaboratorError("counter", "increment", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, reviewpipe.NewCollaboratorError("counter", "increment", err)
		}
		if affected == 1 {
			return 1, nil
		}
		count, err := res.LastInsertId()
		if err != nil {
			return 0, reviewpipe.NewCollaboratorError("counter", "increment", err)
		}
		return count, nil
	}
}

// SetFlag implements ledger.CounterStore. Only the ban flag is stored.
func (s *Store) SetFlag(ctx context.Context, key, name string, value bool) error {
	if name != ledger.BanFlag {
		return nil
	}
	now := time.Now().Unix()

	var query string
	switch s.dialect {
	case DialectSQLite:
		query = `INSERT INTO reviewer_violations (reviewer_id, violation_count, is_banned, updated_at)
			 VALUES (?, 0, ?, ?)
			 ON CONFLICT(reviewer_id)
			 DO UPDATE SET is_banned = excluded.is_banned, updated_at = excluded.updated_at`
	default:
		query = `INSERT INTO reviewer_violations (reviewer_id, violation_count, is_banned, updated_at)
			 VALUES (?, 0, ?, ?)
			 ON DUPLICATE KEY UPDATE is_banned = VALUES(is_banned), updated_at = VALUES(updated_at)`
	}
	if _, err := s.db.ExecContext(ctx, query, key, value, now); err != nil {
		return reviewpipe.NewCollaboratorError("counter", "set_flag", err)
	}
	return nil
}

// GetRecord implements ledger.CounterStore.
func (s *Store) GetRecord(ctx context.Context, key string) (*ledger.Record, error) {
	rec := ledger.Record{Key: key}
	err := s.db.QueryRowContext(ctx,
		`SELECT violation_count, is_banned FROM reviewer_violations WHERE reviewer_id = ?`,
		key).Scan(&rec.Count, &rec.Banned)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, reviewpipe.NewCollaboratorError("counter", "get", err)
	}
	return &rec, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return reviewpipe.NewCollaboratorError("counter", "ping", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
