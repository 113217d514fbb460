// Package storage implements the preference Provider on top of an embedded SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"fjacquet/pocket-budget/internal/fileutils"
	"fjacquet/pocket-budget/internal/logging"
	"fjacquet/pocket-budget/internal/prefs"

	_ "modernc.org/sqlite"
)

const queryTimeout = 5 * time.Second

// SQLiteProvider stores preferences as rows of a single key/value table. Writes are staged in
// memory and flushed in one transaction by Commit.
type SQLiteProvider struct {
	db     *sql.DB
	logger logging.Logger

	mu     sync.Mutex
	staged map[string]string
}

var _ prefs.Provider = (*SQLiteProvider)(nil)

// NewSQLiteProvider opens the database at dbPath, creating its directory and running migrations.
func NewSQLiteProvider(dbPath string, logger logging.Logger) (*SQLiteProvider, error) {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		logger: logger.WithFields(logging.F(logging.FieldBackend, "sqlite"), logging.F(logging.FieldFile, dbPath)),
		staged: make(map[string]string),
	}, nil
}

// Close releases the database handle.
func (p *SQLiteProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *SQLiteProvider) lookup(key string) (string, bool) {
	p.mu.Lock()
	v, ok := p.staged[key]
	p.mu.Unlock()
	if ok {
		return v, true
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			p.logger.WithError(err).Warn("Failed to read preference", logging.F(logging.FieldKey, key))
		}
		return "", false
	}
	return value, true
}

func (p *SQLiteProvider) set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.staged[key] = value
	return nil
}

// GetString returns the value under key or def.
func (p *SQLiteProvider) GetString(key, def string) string {
	if v, ok := p.lookup(key); ok {
		return v
	}
	return def
}

// SetString stages value under key.
func (p *SQLiteProvider) SetString(key, value string) error {
	return p.set(key, value)
}

// GetFloat returns the float under key or def.
func (p *SQLiteProvider) GetFloat(key string, def float64) float64 {
	v, ok := p.lookup(key)
	return prefs.ParseFloat(v, ok, def)
}

// SetFloat stages value under key.
func (p *SQLiteProvider) SetFloat(key string, value float64) error {
	return p.set(key, prefs.FormatFloat(value))
}

// GetInt returns the int under key or def.
func (p *SQLiteProvider) GetInt(key string, def int) int {
	v, ok := p.lookup(key)
	return prefs.ParseInt(v, ok, def)
}

// SetInt stages value under key.
func (p *SQLiteProvider) SetInt(key string, value int) error {
	return p.set(key, prefs.FormatInt(value))
}

// Commit upserts every staged entry in a single transaction. On failure the transaction is
// rolled back and the staged entries are dropped.
func (p *SQLiteProvider) Commit() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.staged) == 0 {
		return nil
	}
	staged := p.staged
	p.staged = make(map[string]string)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	const upsert = `INSERT INTO preferences (key, value, updated_at)
VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	for key, value := range staged {
		if _, err := tx.ExecContext(ctx, upsert, key, value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	p.logger.Debug("Committed preferences", logging.F(logging.FieldCount, len(staged)))
	return nil
}

// Keys lists every durable key, sorted.
func (p *SQLiteProvider) Keys(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT key FROM preferences ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan preference key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
