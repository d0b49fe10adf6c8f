// Package store handles SQLite persistence of the lexicon tables.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/verte-zerg/kovocab/internal/lexicon"
	"github.com/verte-zerg/kovocab/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for dictionary data.
type Store struct {
	db *sql.DB
}

// Counts reports the number of rows per table.
type Counts struct {
	Entries     int
	Inflections int
	Frequency   int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		// Best-effort close on migration failure.
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			headword TEXT PRIMARY KEY,
			definition TEXT NOT NULL,
			tier TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS inflections (
			surface TEXT PRIMARY KEY,
			headword TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS frequency (
			headword TEXT PRIMARY KEY,
			rank INTEGER NOT NULL,
			definition TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_inflections_headword ON inflections(headword);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ImportTables upserts every row of tables in one transaction.
func (s *Store) ImportTables(ctx context.Context, tables *lexicon.Tables) (Counts, error) {
	var counts Counts
	if tables == nil {
		return counts, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, err
	}
	defer func() {
		if err != nil {
			// Best-effort rollback.
			_ = tx.Rollback()
		}
	}()

	for _, headword := range sortedKeys(tables.Dictionary) {
		e := tables.Dictionary[headword]
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO entries (headword, definition, tier) VALUES (?, ?, ?)
			 ON CONFLICT(headword) DO UPDATE SET definition = excluded.definition, tier = excluded.tier`,
			headword, e.Definition, e.Tier.String()); err != nil {
			return counts, fmt.Errorf("failed to import entry %q: %w", headword, err)
		}
		counts.Entries++
	}
	for _, surface := range sortedKeys(tables.Inflections) {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO inflections (surface, headword) VALUES (?, ?)
			 ON CONFLICT(surface) DO UPDATE SET headword = excluded.headword`,
			surface, tables.Inflections[surface]); err != nil {
			return counts, fmt.Errorf("failed to import inflection %q: %w", surface, err)
		}
		counts.Inflections++
	}
	for _, headword := range sortedKeys(tables.Frequency) {
		f := tables.Frequency[headword]
		if err = upsertFrequency(ctx, tx, headword, f); err != nil {
			return counts, err
		}
		counts.Frequency++
	}

	if err = tx.Commit(); err != nil {
		return counts, err
	}
	return counts, nil
}

// ImportFrequency upserts frequency rows. Existing definitions are kept when
// the incoming row has none.
func (s *Store) ImportFrequency(ctx context.Context, rows []model.FrequencyEntry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			// Best-effort rollback.
			_ = tx.Rollback()
		}
	}()
	for _, row := range rows {
		if err = upsertFrequency(ctx, tx, row.Headword, row); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func upsertFrequency(ctx context.Context, tx *sql.Tx, headword string, f model.FrequencyEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO frequency (headword, rank, definition) VALUES (?, ?, ?)
		 ON CONFLICT(headword) DO UPDATE SET rank = excluded.rank,
		 definition = CASE WHEN excluded.definition = '' THEN frequency.definition ELSE excluded.definition END`,
		headword, f.Rank, f.Definition)
	if err != nil {
		return fmt.Errorf("failed to import frequency %q: %w", headword, err)
	}
	return nil
}

// LoadTables reads every table into memory.
func (s *Store) LoadTables(ctx context.Context) (*lexicon.Tables, error) {
	tables := lexicon.NewTables()

	rows, err := s.db.QueryContext(ctx, `SELECT headword, definition, tier FROM entries`)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var e model.Entry
		var tier string
		if err := rows.Scan(&e.Headword, &e.Definition, &tier); err != nil {
			return err
		}
		parsed, err := model.ParseTier(tier)
		if err != nil {
			return err
		}
		e.Tier = parsed
		tables.Dictionary[e.Headword] = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT surface, headword FROM inflections`)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var surface, headword string
		if err := rows.Scan(&surface, &headword); err != nil {
			return err
		}
		tables.Inflections[surface] = headword
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT headword, rank, definition FROM frequency`)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var f model.FrequencyEntry
		if err := rows.Scan(&f.Headword, &f.Rank, &f.Definition); err != nil {
			return err
		}
		tables.Frequency[f.Headword] = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// Counts returns the number of rows in each table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM entries), (SELECT COUNT(*) FROM inflections), (SELECT COUNT(*) FROM frequency)`,
	).Scan(&c.Entries, &c.Inflections, &c.Frequency)
	return c, err
}

func scanRows(rows *sql.Rows, scan func() error) error {
	defer func() {
		// Best-effort rows close.
		_ = rows.Close()
	}()
	for rows.Next() {
		if err := scan(); err != nil {
			return err
		}
	}
	return rows.Err()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
