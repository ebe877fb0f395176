// Package history keeps a SQLite ledger of script builds.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/alexisbeaulieu97/livepreview/internal/compiler"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a build id is unknown.
var ErrNotFound = errors.New("build not found")

// Record is one stored build.
type Record struct {
	ID       string        `json:"id"`
	Document string        `json:"document"`
	Digest   string        `json:"digest"`
	Bytes    int           `json:"bytes"`
	Fields   int           `json:"fields"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration_ns"`
	BuiltAt  time.Time     `json:"built_at"`
	// FieldList is only populated by Get.
	FieldList []FieldRecord `json:"field_list,omitempty"`
}

// FieldRecord is one compiled field of a stored build.
type FieldRecord struct {
	Setting  string   `json:"setting"`
	StyleID  string   `json:"style_id"`
	Handlers []string `json:"handlers"`
}

// FromResult converts a build result into a record for document.
func FromResult(document string, res *compiler.Result) Record {
	rec := Record{
		ID:        res.ID,
		Document:  document,
		Digest:    res.Digest,
		Bytes:     len(res.Script),
		Fields:    len(res.Fields),
		Skipped:   len(res.Skipped),
		Duration:  res.Duration,
		BuiltAt:   res.StartedAt,
		FieldList: make([]FieldRecord, 0, len(res.Fields)),
	}
	for _, f := range res.Fields {
		rec.FieldList = append(rec.FieldList, FieldRecord{Setting: f.Setting, StyleID: f.StyleID, Handlers: f.Handlers()})
	}
	return rec
}

// Store persists build records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations. ":memory:" gives a
// private in-memory ledger.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a build and its fields atomically.
func (s *Store) Record(ctx context.Context, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (id, document, digest, bytes, fields, skipped, duration_ns, built_at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Document, rec.Digest, rec.Bytes, rec.Fields, rec.Skipped,
		rec.Duration.Nanoseconds(), rec.BuiltAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("insert build %s: %w", rec.ID, err)
	}

	for i, f := range rec.FieldList {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO build_fields (build_id, position, setting, style_id, handlers) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, i, f.Setting, f.StyleID, strings.Join(f.Handlers, ","),
		); err != nil {
			return fmt.Errorf("insert field %s of build %s: %w", f.Setting, rec.ID, err)
		}
	}

	return tx.Commit()
}

const selectBuild = `SELECT id, document, digest, bytes, fields, skipped, duration_ns, built_at_ns FROM builds`

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectBuild+` ORDER BY built_at_ns DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Latest returns the newest build of document.
func (s *Store) Latest(ctx context.Context, document string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectBuild+` WHERE document = ? ORDER BY built_at_ns DESC, rowid DESC LIMIT 1`, document)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get returns a build with its fields.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectBuild+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT setting, style_id, handlers FROM build_fields WHERE build_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}
	defer rows.Close()

	rec.FieldList = []FieldRecord{}
	for rows.Next() {
		var f FieldRecord
		var handlers string
		if err := rows.Scan(&f.Setting, &f.StyleID, &handlers); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		if handlers != "" {
			f.Handlers = strings.Split(handlers, ",")
		}
		rec.FieldList = append(rec.FieldList, f)
	}
	return &rec, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var duration, builtAt int64
	if err := row.Scan(&rec.ID, &rec.Document, &rec.Digest, &rec.Bytes, &rec.Fields, &rec.Skipped, &duration, &builtAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan build: %w", err)
	}
	rec.Duration = time.Duration(duration)
	rec.BuiltAt = time.Unix(0, builtAt).UTC()
	return rec, nil
}
