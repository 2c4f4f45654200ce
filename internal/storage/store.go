// Package storage persists ledger transactions in an embedded SQLite file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dominosyicem-blip/nakitakisi/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore wraps a single-file SQLite database holding the transactions
// table. All operations commit durably before returning.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed, verifies
// the connection and runs schema migrations.
func Open(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Insert appends one row and returns the freshly assigned id. Ids are
// strictly increasing and never reused.
func (s *SQLiteStore) Insert(ctx context.Context, date string, group core.Group, description string, amount float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (date, "group", description, amount) VALUES (?, ?, ?, ?)`,
		date, string(group), description, amount)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"id", id, "group", group, "description", description, "amount", amount)
	return id, nil
}

// GetAll returns every row in ascending id order.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, "group", description, amount FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Date, &t.Group, &desc, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Description = desc.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// DeleteIDs removes the given rows in one statement. Ids not present are
// ignored; an empty set is a no-op.
func (s *SQLiteStore) DeleteIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]byte, 0, len(ids)*2)
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM transactions WHERE id IN (%s)", placeholders), args...)
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

// ClearAll deletes every row. Used only by bulk sample loading; not
// reachable from undo.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	return nil
}

// ReinsertWithID restores a previously deleted row, keeping its original id
// when that id is still free. If the id has been taken by an intervening
// insert, the row is inserted with a fresh id instead. Returns the id
// actually used; callers must not assume the original id survives.
func (s *SQLiteStore) ReinsertWithID(ctx context.Context, t core.Transaction) (int64, error) {
	var occupied bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM transactions WHERE id = ?)", t.ID).Scan(&occupied)
	if err != nil {
		return 0, fmt.Errorf("check id %d: %w", t.ID, err)
	}

	if !occupied {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO transactions (id, date, "group", description, amount) VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.Date, string(t.Group), t.Description, t.Amount)
		if err != nil {
			return 0, fmt.Errorf("reinsert transaction %d: %w", t.ID, err)
		}
		return t.ID, nil
	}

	id, err := s.Insert(ctx, t.Date, t.Group, t.Description, t.Amount)
	if err != nil {
		return 0, err
	}
	slog.DebugContext(ctx, "Reinserted with fresh id", "original_id", t.ID, "new_id", id)
	return id, nil
}
