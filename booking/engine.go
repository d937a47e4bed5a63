/*
engine.go - The booking engine: directory, allocation, and reconstruction

PURPOSE:
  Engine is the controller that owns all in-memory state: the client and
  technician directories, every technician's availability ledger and
  schedule log, and the global appointment map. It validates each booking
  or cancellation, mutates ledger and log together, and instructs the
  record store to durably record the new state before reporting success.

BOOKING ALGORITHM:
  1. Resolve client and technician           -> ErrUnknownParty
  2. Validate the calendar date              -> ErrInvalidDate
  3. Check the availability ledger           -> ErrSlotUnavailable
  4. Issue an appointment ID, status Booked
  5. Append to the schedule log (booking order)
  6. Remove the slot from the ledger (the allocation step)
  7. Insert into the global appointment map
  8. Rewrite the appointment records durably

  Validation fails fast BEFORE any mutation, so no rollback logic exists.
  The one acknowledged gap: if the durable rewrite in step 8 fails, the
  in-memory state and the persisted state diverge. The error is propagated
  and the divergence is not silently repaired.

STARTUP RECONSTRUCTION:
  The availability ledger is rebuilt from two sources, in order: the fixed
  bootstrap windows assigned to the seeded technicians, then subtraction of
  every persisted Booked appointment's slot. Canceled appointments do not
  subtract - their slot was already restored at cancellation time and
  persisted in the same rewrite.

CONCURRENCY:
  Engine is single-threaded by contract: no internal locking. When embedded
  in a concurrent service, wrap every engine call in one mutual-exclusion
  boundary (see api.Handler).

SEE ALSO:
  - availability.go, schedule.go: The paired per-technician structures
  - record.go: The persistence gateway interface
  - identity.go: Identifier issuance and seeding
*/
package booking

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BOOTSTRAP SEEDS
// =============================================================================

// bootstrapSeed is a technician guaranteed to exist after startup, with a
// fixed initial availability window.
type bootstrapSeed struct {
	name    string
	windows map[string][]string // date -> time tokens
}

func defaultBootstrap() []bootstrapSeed {
	return []bootstrapSeed{
		{name: "Alice", windows: map[string][]string{
			"2025-11-21": {"10:00", "11:00", "15:00"},
		}},
		{name: "Bob", windows: map[string][]string{
			"2025-11-21": {"14:00", "16:00"},
		}},
	}
}

const (
	defaultClientName  = "Cathy Smith"
	defaultClientPhone = "555-1234"
)

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	store RecordStore
	ids   *Registry

	clients      map[ClientID]*Client
	technicians  map[TechnicianID]*Technician
	appointments map[AppointmentID]*Appointment

	// technician insertion order, for stable iteration in reports
	techOrder []TechnicianID
}

// NewEngine builds an engine over the given record store and reconstructs
// all state from persisted records. Bootstrap technicians and a default
// client are registered if missing.
func NewEngine(ctx context.Context, store RecordStore) (*Engine, error) {
	e := &Engine{
		store:        store,
		ids:          NewRegistry(),
		clients:      make(map[ClientID]*Client),
		technicians:  make(map[TechnicianID]*Technician),
		appointments: make(map[AppointmentID]*Appointment),
	}

	if err := e.loadClients(ctx); err != nil {
		return nil, err
	}
	if err := e.loadTechnicians(ctx); err != nil {
		return nil, err
	}
	if err := e.bootstrap(ctx); err != nil {
		return nil, err
	}
	if err := e.loadAppointments(ctx); err != nil {
		return nil, err
	}
	if len(e.clients) == 0 {
		if _, err := e.RegisterClient(ctx, defaultClientName, defaultClientPhone); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// =============================================================================
// DIRECTORY - Registration and lookup
// =============================================================================

// RegisterClient creates a client with a fresh identifier and durably
// appends its record.
func (e *Engine) RegisterClient(ctx context.Context, name, phone string) (*Client, error) {
	c := &Client{ID: e.ids.NextClient(), Name: name, Phone: phone}
	e.clients[c.ID] = c
	if err := e.store.AppendOne(ctx, KindClient, clientFields(c)); err != nil {
		return nil, fmt.Errorf("saving client: %w", err)
	}
	return c, nil
}

// RegisterTechnician creates a technician with a fresh identifier and
// durably appends its record.
func (e *Engine) RegisterTechnician(ctx context.Context, name string) (*Technician, error) {
	t := NewTechnician(e.ids.NextTechnician(), name)
	e.technicians[t.ID] = t
	e.techOrder = append(e.techOrder, t.ID)
	if err := e.store.AppendOne(ctx, KindTechnician, technicianFields(t)); err != nil {
		return nil, fmt.Errorf("saving technician: %w", err)
	}
	return t, nil
}

func (e *Engine) LookupClient(id ClientID) (*Client, error) {
	c, ok := e.clients[id]
	if !ok {
		return nil, ErrUnknownParty
	}
	return c, nil
}

func (e *Engine) LookupTechnician(id TechnicianID) (*Technician, error) {
	t, ok := e.technicians[id]
	if !ok {
		return nil, ErrUnknownParty
	}
	return t, nil
}

func (e *Engine) LookupAppointment(id AppointmentID) (*Appointment, error) {
	a, ok := e.appointments[id]
	if !ok {
		return nil, ErrUnknownAppointment
	}
	return a, nil
}

// Clients returns all clients, ordered by identifier.
func (e *Engine) Clients() []*Client {
	out := make([]*Client, 0, len(e.clients))
	for _, c := range e.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Technicians returns all technicians, in registration order.
func (e *Engine) Technicians() []*Technician {
	out := make([]*Technician, 0, len(e.techOrder))
	for _, id := range e.techOrder {
		out = append(out, e.technicians[id])
	}
	return out
}

// Appointments returns all appointments (any status), ordered by identifier.
func (e *Engine) Appointments() []*Appointment {
	out := make([]*Appointment, 0, len(e.appointments))
	for _, a := range e.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AppointmentsForClient returns a client's appointments, ordered by identifier.
func (e *Engine) AppointmentsForClient(id ClientID) []*Appointment {
	var out []*Appointment
	for _, a := range e.appointments {
		if a.Client.ID == id {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// =============================================================================
// BOOKING
// =============================================================================

// BookAppointment converts an open slot into a Booked appointment. All
// preconditions are checked before any mutation.
func (e *Engine) BookAppointment(ctx context.Context, clientID ClientID, techID TechnicianID, date, timeTok, service string, price decimal.Decimal) (*Appointment, error) {
	client, err := e.LookupClient(clientID)
	if err != nil {
		return nil, err
	}
	tech, err := e.LookupTechnician(techID)
	if err != nil {
		return nil, err
	}
	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}
	if !tech.Availability.IsOpen(date, timeTok) {
		return nil, &SlotUnavailableError{Technician: tech.Name, Date: date, Time: timeTok}
	}

	appt := &Appointment{
		ID:         e.ids.NextAppointment(),
		Date:       date,
		Time:       timeTok,
		Client:     client,
		Technician: tech,
		Service:    service,
		Price:      price,
		Status:     StatusBooked,
	}

	// The allocation step: schedule append and slot removal happen together
	// and no other operation can observe the slot as open afterwards.
	tech.Schedule.Append(appt)
	if err := tech.Availability.RemoveSlot(date, timeTok); err != nil {
		// IsOpen held above; the ledger cannot refuse here.
		panic(fmt.Sprintf("availability ledger out of sync: %v", err))
	}
	e.appointments[appt.ID] = appt

	if err := e.rewriteAppointments(ctx); err != nil {
		return nil, fmt.Errorf("saving appointments: %w", err)
	}
	return appt, nil
}

// CancelAppointment flips an appointment to Canceled and restores the slot.
// The returned bool reports whether the slot was actually restored: false
// means it was independently re-opened before the cancellation, which is a
// no-op rather than a conflict. Repeated cancellation is rejected with
// ErrUnknownAppointment.
func (e *Engine) CancelAppointment(ctx context.Context, id AppointmentID) (*Appointment, bool, error) {
	appt, ok := e.appointments[id]
	if !ok || appt.Status == StatusCanceled {
		return nil, false, ErrUnknownAppointment
	}

	appt.Status = StatusCanceled
	if err := e.rewriteAppointments(ctx); err != nil {
		return nil, false, fmt.Errorf("saving appointments: %w", err)
	}

	tech := appt.Technician
	tech.Schedule.Remove(appt.Date, appt.ID)
	restored := tech.Availability.Restore(appt.Date, appt.Time)
	return appt, restored, nil
}

// FindOpenSlots reports every open (technician, date, time) tuple for date,
// in technician-registration order then ascending time order. Pure read.
func (e *Engine) FindOpenSlots(date string) []OpenSlot {
	var open []OpenSlot
	for _, tech := range e.Technicians() {
		for t := range tech.Availability.OpenTimes(date) {
			open = append(open, OpenSlot{
				TechnicianID:   tech.ID,
				TechnicianName: tech.Name,
				Date:           date,
				Time:           t,
			})
		}
	}
	return open
}

// =============================================================================
// TECHNICIAN SLOT MANAGEMENT
// =============================================================================

// TechnicianAddSlot publishes a new open slot for a technician.
func (e *Engine) TechnicianAddSlot(techID TechnicianID, date, timeTok string) error {
	tech, err := e.LookupTechnician(techID)
	if err != nil {
		return err
	}
	if !ValidDate(date) {
		return ErrInvalidDate
	}
	if err := tech.Availability.AddSlot(date, timeTok); err != nil {
		return &SlotConflictError{Technician: tech.Name, Date: date, Time: timeTok, Adding: true}
	}
	return nil
}

// TechnicianRemoveSlot withdraws an open slot.
func (e *Engine) TechnicianRemoveSlot(techID TechnicianID, date, timeTok string) error {
	tech, err := e.LookupTechnician(techID)
	if err != nil {
		return err
	}
	if err := tech.Availability.RemoveSlot(date, timeTok); err != nil {
		return &SlotConflictError{Technician: tech.Name, Date: date, Time: timeTok, Adding: false}
	}
	return nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// rewriteAppointments durably replaces the full appointment record set.
// Full-rewrite semantics are required because a cancellation changes the
// status field of an existing record.
func (e *Engine) rewriteAppointments(ctx context.Context) error {
	appts := e.Appointments()
	records := make([][]string, 0, len(appts))
	for _, a := range appts {
		records = append(records, appointmentFields(a))
	}
	return e.store.RewriteAll(ctx, KindAppointment, records)
}

// =============================================================================
// STARTUP RECONSTRUCTION
// =============================================================================

func (e *Engine) loadClients(ctx context.Context) error {
	records, err := e.store.LoadAll(ctx, KindClient)
	if err != nil {
		return fmt.Errorf("loading clients: %w", err)
	}
	for _, rec := range records {
		if len(rec) != 3 {
			log.Printf("WARNING: skipping malformed client record %v", rec)
			continue
		}
		id, err := parseID(rec[0])
		if err != nil {
			log.Printf("WARNING: skipping client record: %v", err)
			continue
		}
		c := &Client{ID: ClientID(id), Name: rec[1], Phone: rec[2]}
		e.clients[c.ID] = c
		e.ids.SeedClient(c.ID)
	}
	if len(records) > 0 {
		log.Printf("Loaded %d clients", len(e.clients))
	}
	return nil
}

func (e *Engine) loadTechnicians(ctx context.Context) error {
	records, err := e.store.LoadAll(ctx, KindTechnician)
	if err != nil {
		return fmt.Errorf("loading technicians: %w", err)
	}
	for _, rec := range records {
		if len(rec) != 2 {
			log.Printf("WARNING: skipping malformed technician record %v", rec)
			continue
		}
		id, err := parseID(rec[0])
		if err != nil {
			log.Printf("WARNING: skipping technician record: %v", err)
			continue
		}
		t := NewTechnician(TechnicianID(id), rec[1])
		e.technicians[t.ID] = t
		e.techOrder = append(e.techOrder, t.ID)
		e.ids.SeedTechnician(t.ID)
	}
	if len(records) > 0 {
		log.Printf("Loaded %d technicians", len(e.technicians))
	}
	return nil
}

// bootstrap guarantees the seeded technicians exist and assigns their fixed
// initial availability windows. Counters are already seeded from loaded
// records, so registrations here never reuse a persisted identifier.
func (e *Engine) bootstrap(ctx context.Context) error {
	for _, seed := range e.bootstrapSeeds() {
		tech := e.findTechnicianByName(seed.name)
		if tech == nil {
			var err error
			tech, err = e.RegisterTechnician(ctx, seed.name)
			if err != nil {
				return err
			}
		}
		tech.Availability.Reset()
		for date, times := range seed.windows {
			for _, t := range times {
				if err := tech.Availability.AddSlot(date, t); err != nil {
					return fmt.Errorf("seeding %s availability: %w", seed.name, err)
				}
			}
		}
	}
	return nil
}

func (e *Engine) bootstrapSeeds() []bootstrapSeed { return defaultBootstrap() }

func (e *Engine) findTechnicianByName(name string) *Technician {
	for _, id := range e.techOrder {
		if e.technicians[id].Name == name {
			return e.technicians[id]
		}
	}
	return nil
}

// loadAppointments rebuilds the global appointment map, the schedule logs,
// and the availability subtraction for Booked records. Records referencing
// an unknown client or technician are skipped and reported, not fatal.
func (e *Engine) loadAppointments(ctx context.Context) error {
	records, err := e.store.LoadAll(ctx, KindAppointment)
	if err != nil {
		return fmt.Errorf("loading appointments: %w", err)
	}
	loaded := 0
	for _, rec := range records {
		if len(rec) != 8 {
			log.Printf("WARNING: skipping malformed appointment record %v", rec)
			continue
		}
		id, err := parseID(rec[0])
		if err != nil {
			log.Printf("WARNING: skipping appointment record: %v", err)
			continue
		}
		clientID, err := parseID(rec[3])
		if err != nil {
			log.Printf("WARNING: skipping appointment %d: %v", id, err)
			continue
		}
		techID, err := parseID(rec[4])
		if err != nil {
			log.Printf("WARNING: skipping appointment %d: %v", id, err)
			continue
		}
		price, err := parsePrice(rec[6])
		if err != nil {
			log.Printf("WARNING: skipping appointment %d: %v", id, err)
			continue
		}

		client := e.clients[ClientID(clientID)]
		tech := e.technicians[TechnicianID(techID)]
		if client == nil || tech == nil {
			log.Printf("WARNING: skipping appointment %d: linked client or technician not found", id)
			continue
		}

		appt := &Appointment{
			ID:         AppointmentID(id),
			Date:       rec[1],
			Time:       rec[2],
			Client:     client,
			Technician: tech,
			Service:    rec[5],
			Price:      price,
			Status:     Status(rec[7]),
		}
		e.appointments[appt.ID] = appt
		e.ids.SeedAppointment(appt.ID)
		loaded++

		tech.Schedule.Append(appt)
		if appt.Status == StatusBooked {
			// Subtract the booked slot from the reconstructed ledger.
			// Canceled appointments had their slot restored (and persisted)
			// at cancellation time, so they do not subtract.
			_ = tech.Availability.RemoveSlot(appt.Date, appt.Time)
		}
	}
	if loaded > 0 {
		log.Printf("Loaded %d appointments", loaded)
	}
	return nil
}
