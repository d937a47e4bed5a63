/*
Package csv provides the flat-file implementation of the record store.

PURPOSE:
  The production persistence format: one CSV file per record kind
  (clients.txt, technicians.txt, appointments.txt) in a data directory,
  each with a header row.

SEMANTICS:
  - A missing file is not an error: LoadAll returns an empty set.
  - AppendOne writes the header only on the first write to an empty or
    missing file, then appends the record.
  - RewriteAll writes header plus all records to a temp file in the same
    directory and renames it over the original, so a crash mid-rewrite
    never corrupts previously persisted records.

USAGE:
  store := csv.New("./data")
  engine, err := booking.NewEngine(ctx, store)

SEE ALSO:
  - booking/record.go: Interface and field schemas
  - store/sqlite: SQLite-backed alternative
*/
package csv

import (
	"context"
	encsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warp/salon-engine/booking"
)

// Store persists records as CSV files under a directory.
type Store struct {
	dir string
}

// New creates a flat-file store rooted at dir. The directory is created if
// missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(kind booking.RecordKind) string {
	return filepath.Join(s.dir, string(kind)+".txt")
}

// LoadAll reads every record of kind, skipping the header row. Absence of
// the file is treated as an empty store.
func (s *Store) LoadAll(_ context.Context, kind booking.RecordKind) ([][]string, error) {
	f, err := os.Open(s.path(kind))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path(kind), err)
	}
	defer f.Close()

	reader := encsv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path(kind), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil // skip header
}

// AppendOne appends a single record, writing the header first when the file
// is empty or missing.
func (s *Store) AppendOne(_ context.Context, kind booking.RecordKind, fields []string) error {
	path := s.path(kind)
	needHeader := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	writer := encsv.NewWriter(f)
	if needHeader {
		if err := writer.Write(kind.Header()); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := writer.Write(fields); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Sync()
}

// RewriteAll replaces the file contents with header plus records, via a
// temp file and rename.
func (s *Store) RewriteAll(_ context.Context, kind booking.RecordKind, records [][]string) error {
	path := s.path(kind)
	tmp, err := os.CreateTemp(s.dir, string(kind)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := encsv.NewWriter(tmp)
	if err := writer.Write(kind.Header()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
