/*
Package sqlite provides a SQLite-backed implementation of the record store.

PURPOSE:
  An alternative durable backend with the same load/append/rewrite contract
  as the flat-file store: one table per record kind, records kept as plain
  text fields in file-schema order. In production the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

SEMANTICS:
  - Missing rows are an empty store (tables are auto-created).
  - AppendOne inserts one row.
  - RewriteAll deletes and re-inserts inside a single SQL transaction, so a
    crash mid-rewrite rolls back and never corrupts prior records.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better crash
  recovery.

USAGE:
  store, err := sqlite.New("./data/salon.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  engine, err := booking.NewEngine(ctx, store)

SEE ALSO:
  - booking/record.go: Interface and field schemas
  - store/csv: Flat-file implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/salon-engine/booking"
)

// Store implements booking.RecordStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and costs
	// nothing for a single-threaded engine.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		client_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS technicians (
		tech_id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS appointments (
		appt_id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		client_id TEXT NOT NULL,
		tech_id TEXT NOT NULL,
		service TEXT NOT NULL,
		price TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_appointments_tech_date
		ON appointments(tech_id, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// kindColumns maps each record kind to its table and columns, in field order.
func kindColumns(kind booking.RecordKind) (table string, columns []string, err error) {
	switch kind {
	case booking.KindClient:
		return "clients", []string{"client_id", "name", "phone"}, nil
	case booking.KindTechnician:
		return "technicians", []string{"tech_id", "name"}, nil
	case booking.KindAppointment:
		return "appointments", []string{"appt_id", "date", "time", "client_id", "tech_id", "service", "price", "status"}, nil
	default:
		return "", nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

func joinColumns(columns []string) string {
	out := ""
	for i, c := range columns {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

func insertSQL(table string, columns []string) string {
	placeholders := ""
	for i := range columns {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, joinColumns(columns), placeholders)
}

// LoadAll returns every record of kind ordered by numeric identifier.
func (s *Store) LoadAll(ctx context.Context, kind booking.RecordKind) ([][]string, error) {
	table, columns, err := kindColumns(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY CAST(%s AS INTEGER)",
		joinColumns(columns), table, columns[0])
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", kind, err)
	}
	defer rows.Close()

	var records [][]string
	for rows.Next() {
		fields := make([]string, len(columns))
		dest := make([]any, len(columns))
		for i := range fields {
			dest[i] = &fields[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning %s record: %w", kind, err)
		}
		records = append(records, fields)
	}
	return records, rows.Err()
}

// AppendOne inserts a single record.
func (s *Store) AppendOne(ctx context.Context, kind booking.RecordKind, fields []string) error {
	table, columns, err := kindColumns(kind)
	if err != nil {
		return err
	}
	if len(fields) != len(columns) {
		return fmt.Errorf("%s record has %d fields, want %d", kind, len(fields), len(columns))
	}

	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	if _, err := s.db.ExecContext(ctx, insertSQL(table, columns), args...); err != nil {
		return fmt.Errorf("appending %s record: %w", kind, err)
	}
	return nil
}

// RewriteAll replaces every record of kind atomically.
func (s *Store) RewriteAll(ctx context.Context, kind booking.RecordKind, records [][]string) error {
	table, columns, err := kindColumns(kind)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting rewrite: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s: %w", kind, err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL(table, columns))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if len(rec) != len(columns) {
			return fmt.Errorf("%s record has %d fields, want %d", kind, len(rec), len(columns))
		}
		args := make([]any, len(rec))
		for i, f := range rec {
			args[i] = f
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("rewriting %s record: %w", kind, err)
		}
	}
	return tx.Commit()
}
