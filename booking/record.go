/*
record.go - Persistence gateway interface and record field schemas

PURPOSE:
  Defines the interface between the engine and durable storage. The engine
  depends only on load/append/rewrite semantics over flat field-tuples; it
  has no knowledge of file formats, SQL, or storage location.

RECORD KINDS AND SCHEMAS:
  clients:      (id, name, phone)
  technicians:  (id, name)
  appointments: (id, date, time, client_id, technician_id, service,
                 price formatted to two decimal places, status)

WRITE SEMANTICS:
  - Clients and technicians are append-only: AppendOne per registration.
  - Appointments use full-rewrite: a cancellation flips the status of an
    existing record, so the whole set is rewritten on every mutation.
    Implementations must make the rewrite non-corrupting (temp file +
    rename, or a transaction): a crash mid-rewrite may lose the in-flight
    mutation but never prior records.

IMPLEMENTATIONS:
  - store/csv:      Production flat files with header rows
  - store/sqlite:   SQLite-backed, one table per kind
  - booking/store:  In-memory, for tests

SEE ALSO:
  - engine.go: The only caller
  - store/csv/csv.go, store/sqlite/sqlite.go
*/
package booking

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD KINDS
// =============================================================================

type RecordKind string

const (
	KindClient      RecordKind = "clients"
	KindTechnician  RecordKind = "technicians"
	KindAppointment RecordKind = "appointments"
)

// Header returns the header row for a record kind.
func (k RecordKind) Header() []string {
	switch k {
	case KindClient:
		return []string{"client_id", "name", "phone"}
	case KindTechnician:
		return []string{"tech_id", "name"}
	case KindAppointment:
		return []string{"appt_id", "date", "time", "client_id", "tech_id", "service", "price", "status"}
	default:
		return nil
	}
}

// =============================================================================
// RECORD STORE - Persistence gateway
// =============================================================================

// RecordStore is the durable storage collaborator. Absence of a backing
// store is not an error: LoadAll returns an empty sequence. Header rows are
// an implementation concern and never appear in LoadAll results.
type RecordStore interface {
	// LoadAll returns every record of kind in stored order.
	LoadAll(ctx context.Context, kind RecordKind) ([][]string, error)

	// AppendOne durably appends a single record. Used for clients and
	// technicians only.
	AppendOne(ctx context.Context, kind RecordKind, fields []string) error

	// RewriteAll durably replaces every record of kind. Used for
	// appointments only.
	RewriteAll(ctx context.Context, kind RecordKind, records [][]string) error
}

// =============================================================================
// FIELD ENCODING
// =============================================================================

func clientFields(c *Client) []string {
	return []string{c.ID.String(), c.Name, c.Phone}
}

func technicianFields(t *Technician) []string {
	return []string{t.ID.String(), t.Name}
}

func appointmentFields(a *Appointment) []string {
	return []string{
		a.ID.String(),
		a.Date,
		a.Time,
		a.Client.ID.String(),
		a.Technician.ID.String(),
		a.Service,
		a.Price.StringFixed(2),
		string(a.Status),
	}
}

// =============================================================================
// FIELD DECODING
// =============================================================================

func parseID(field string) (int, error) {
	id, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("malformed identifier %q: %w", field, err)
	}
	return id, nil
}

func parsePrice(field string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(field)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed price %q: %w", field, err)
	}
	return price, nil
}
