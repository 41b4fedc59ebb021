// Package storage persists offline snapshots of backend data to SQLite.
// The list screens never read from here; only the export command writes,
// so the engine's no-persistence contract holds.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/faisalkp/mahaldesk/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the service.Snapshot interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the snapshot schema.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS members (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT,
			reg_no TEXT,
			house_name TEXT,
			category TEXT,
			mayyathu_status INTEGER NOT NULL DEFAULT 0,
			joined_at TIMESTAMP,
			exported_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS collections (
			key TEXT PRIMARY KEY,
			amount REAL NOT NULL,
			collected_by TEXT,
			description TEXT,
			category TEXT,
			receipt_no TEXT,
			collected_on TIMESTAMP,
			exported_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_members_name ON members(name)`,
		`CREATE INDEX IF NOT EXISTS idx_collections_collected_on ON collections(collected_on)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// SaveMembers upserts a member snapshot in one transaction.
func (s *SQLiteStorage) SaveMembers(ctx context.Context, members []model.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO members (key, name, phone, reg_no, house_name, category, mayyathu_status, joined_at, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			reg_no = excluded.reg_no,
			house_name = excluded.house_name,
			category = excluded.category,
			mayyathu_status = excluded.mayyathu_status,
			joined_at = excluded.joined_at,
			exported_at = excluded.exported_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, m := range members {
		if m.Key() == "" {
			return fmt.Errorf("member %q has no stable identifier", m.Name)
		}
		if _, err := stmt.ExecContext(ctx,
			m.Key(), m.Name, m.Phone, m.RegNo, m.HouseName, m.Category,
			m.MayyathuStatus, nullableTime(m.JoinedAt), now); err != nil {
			return fmt.Errorf("failed to save member %s: %w", m.Key(), err)
		}
	}

	return tx.Commit()
}

// SaveCollections upserts a ledger snapshot in one transaction.
func (s *SQLiteStorage) SaveCollections(ctx context.Context, collections []model.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO collections (key, amount, collected_by, description, category, receipt_no, collected_on, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			amount = excluded.amount,
			collected_by = excluded.collected_by,
			description = excluded.description,
			category = excluded.category,
			receipt_no = excluded.receipt_no,
			collected_on = excluded.collected_on,
			exported_at = excluded.exported_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, c := range collections {
		if c.Key() == "" {
			return fmt.Errorf("collection entry %q has no stable identifier", c.DisplayName())
		}
		if _, err := stmt.ExecContext(ctx,
			c.Key(), c.Amount, c.CollectedBy, c.Description, c.Category,
			c.ReceiptNo, nullableTime(c.Date), now); err != nil {
			return fmt.Errorf("failed to save collection %s: %w", c.Key(), err)
		}
	}

	return tx.Commit()
}

// CountMembers returns the number of members in the snapshot.
func (s *SQLiteStorage) CountMembers(ctx context.Context) (int, error) {
	return s.count(ctx, "members")
}

// CountCollections returns the number of ledger entries in the snapshot.
func (s *SQLiteStorage) CountCollections(ctx context.Context) (int, error) {
	return s.count(ctx, "collections")
}

func (s *SQLiteStorage) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
