/*
Package booking provides the core appointment scheduling engine.

PURPOSE:
  This package contains the domain model and algorithms for a multi-provider
  appointment business: clients book priced services with technicians, each
  technician publishes open time slots, and the engine guarantees a slot is
  never double-booked and that cancellation restores exactly the state that
  existed before the booking.

KEY CONCEPTS IN THIS FILE (types.go):
  - Client/Technician/Appointment: The three persisted entities
  - ClientID/TechnicianID/AppointmentID: Type-safe integer identifiers
  - Status: Appointment lifecycle (Booked -> Canceled, one-way)
  - Date/time tokens: "2006-01-02" dates and "15:04" time-of-day strings

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for prices to avoid floating-point errors
  2. Type Safety: Strong typing for IDs prevents mixing client/technician keys
  3. Single source of truth: A technician's availability ledger, not the
     schedule log, decides whether a slot can be booked
  4. Audit: Canceled appointments are retained, never deleted

SEE ALSO:
  - engine.go: The booking/cancellation controller
  - availability.go: Per-technician open-slot set
  - schedule.go: Per-technician appointment log
  - errors.go: Error taxonomy
*/
package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// Identifiers are distinct integer newtypes per entity kind so a client key
// can never be used to index the technician map (and vice versa).
type (
	ClientID      int
	TechnicianID  int
	AppointmentID int
)

func (id ClientID) String() string      { return fmt.Sprintf("%d", int(id)) }
func (id TechnicianID) String() string  { return fmt.Sprintf("%d", int(id)) }
func (id AppointmentID) String() string { return fmt.Sprintf("%d", int(id)) }

// Display returns the customer-facing form ("C101").
func (id ClientID) Display() string { return fmt.Sprintf("C%d", int(id)) }

// Display returns the customer-facing form ("T201").
func (id TechnicianID) Display() string { return fmt.Sprintf("T%d", int(id)) }

// =============================================================================
// DATE AND TIME TOKENS
// =============================================================================

// DateLayout is the calendar-date wire format used everywhere: record files,
// availability keys, and API payloads.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a syntactically well-formed calendar date.
// Time tokens are not independently validated: a time that was never added
// as a slot simply fails the availability check at booking.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// =============================================================================
// STATUS - Appointment lifecycle
// =============================================================================

type Status string

const (
	StatusBooked   Status = "Booked"
	StatusCanceled Status = "Canceled"
)

// =============================================================================
// ENTITIES
// =============================================================================

// Client is a customer of the business. Created on registration, never
// deleted.
type Client struct {
	ID    ClientID
	Name  string
	Phone string
}

func (c *Client) String() string {
	return fmt.Sprintf("%s - %s", c.ID.Display(), c.Name)
}

// Technician is a service provider. Owns an availability ledger (open slots)
// and a schedule log (appointments by date). The two structures are disjoint
// views over the same fact - "is this technician free at date+time" - and are
// only ever mutated together, through the engine.
type Technician struct {
	ID           TechnicianID
	Name         string
	Availability *AvailabilityLedger
	Schedule     *ScheduleLog
}

func NewTechnician(id TechnicianID, name string) *Technician {
	return &Technician{
		ID:           id,
		Name:         name,
		Availability: NewAvailabilityLedger(),
		Schedule:     NewScheduleLog(),
	}
}

func (t *Technician) String() string {
	return fmt.Sprintf("%s - %s", t.ID.Display(), t.Name)
}

// Appointment is one booking instance. Among all Booked appointments the
// (technician, date, time) triple is unique. Status moves Booked -> Canceled
// exactly once and the record survives cancellation for audit.
type Appointment struct {
	ID         AppointmentID
	Date       string
	Time       string
	Client     *Client
	Technician *Technician
	Service    string
	Price      decimal.Decimal
	Status     Status
}

func (a *Appointment) String() string {
	statusInfo := ""
	if a.Status != StatusBooked {
		statusInfo = fmt.Sprintf(" | Status: %s", a.Status)
	}
	return fmt.Sprintf("[%d] %s @ %s | Service: %s ($%s)%s\n    - Technician: %s | Client: %s",
		int(a.ID), a.Date, a.Time, a.Service, a.Price.StringFixed(2), statusInfo,
		a.Technician.Name, a.Client.Name)
}

// OpenSlot is one bookable (technician, date, time) tuple, as reported by
// Engine.FindOpenSlots.
type OpenSlot struct {
	TechnicianID   TechnicianID
	TechnicianName string
	Date           string
	Time           string
}
