package booking_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/salon-engine/booking"
	"github.com/warp/salon-engine/booking/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) (*booking.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	engine, err := booking.NewEngine(context.Background(), mem)
	require.NoError(t, err)
	return engine, mem
}

func technicianNamed(t *testing.T, e *booking.Engine, name string) *booking.Technician {
	t.Helper()
	for _, tech := range e.Technicians() {
		if tech.Name == name {
			return tech
		}
	}
	t.Fatalf("technician %q not found", name)
	return nil
}

func openTimes(tech *booking.Technician, date string) []string {
	var times []string
	for tok := range tech.Availability.OpenTimes(date) {
		times = append(times, tok)
	}
	return times
}

func firstClient(t *testing.T, e *booking.Engine) *booking.Client {
	t.Helper()
	clients := e.Clients()
	require.NotEmpty(t, clients)
	return clients[0]
}

var (
	manicure = decimal.NewFromInt(45)
	seedDate = "2025-11-21"
)

// =============================================================================
// BOOTSTRAP
// =============================================================================

func TestEngine_Bootstrap_SeedsTechniciansAndClient(t *testing.T) {
	// GIVEN: A fresh engine over an empty store
	// THEN: Alice and Bob exist with their fixed windows, and a default
	//       client is registered

	engine, _ := newTestEngine(t)

	alice := technicianNamed(t, engine, "Alice")
	bob := technicianNamed(t, engine, "Bob")
	assert.Equal(t, []string{"10:00", "11:00", "15:00"}, openTimes(alice, seedDate))
	assert.Equal(t, []string{"14:00", "16:00"}, openTimes(bob, seedDate))

	client := firstClient(t, engine)
	assert.Equal(t, "Cathy Smith", client.Name)
	assert.Equal(t, booking.ClientID(101), client.ID)
	assert.Equal(t, booking.TechnicianID(201), alice.ID)
	assert.Equal(t, booking.TechnicianID(202), bob.ID)
}

// =============================================================================
// BOOKING
// =============================================================================

func TestBook_Success(t *testing.T) {
	// GIVEN: Alice seeded with [10:00, 11:00, 15:00] on 2025-11-21
	// WHEN: A client books 10:00 for a $45.00 Manicure
	// THEN: A Booked appointment exists and availability shrinks to
	//       [11:00, 15:00]

	engine, mem := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	client := firstClient(t, engine)

	appt, err := engine.BookAppointment(context.Background(),
		client.ID, alice.ID, seedDate, "10:00", "Manicure", manicure)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusBooked, appt.Status)
	assert.Equal(t, booking.AppointmentID(3001), appt.ID)
	assert.Equal(t, "Manicure", appt.Service)
	assert.Equal(t, []string{"11:00", "15:00"}, openTimes(alice, seedDate))

	// Schedule log carries the appointment in booking order
	logged := alice.Schedule.AppointmentsOn(seedDate)
	require.Len(t, logged, 1)
	assert.Equal(t, appt.ID, logged[0].ID)

	// Durably rewritten with two-decimal price
	records, err := mem.LoadAll(context.Background(), booking.KindAppointment)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "45.00", records[0][6])
	assert.Equal(t, "Booked", records[0][7])
}

func TestBook_SameSlotTwice_Rejected(t *testing.T) {
	// GIVEN: Alice's 10:00 slot already booked
	// WHEN: A second booking targets the same date+time
	// THEN: SlotUnavailable, and no appointment is created

	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	client := firstClient(t, engine)
	ctx := context.Background()

	_, err := engine.BookAppointment(ctx, client.ID, alice.ID, seedDate, "10:00", "Manicure", manicure)
	require.NoError(t, err)

	_, err = engine.BookAppointment(ctx, client.ID, alice.ID, seedDate, "10:00", "Manicure", manicure)
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)
	assert.Len(t, engine.Appointments(), 1)
}

func TestBook_UnscheduledTime_Rejected(t *testing.T) {
	// GIVEN: 12:00 was never published as a slot
	// WHEN: Booking Alice at 12:00
	// THEN: SlotUnavailable, state untouched

	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	client := firstClient(t, engine)

	_, err := engine.BookAppointment(context.Background(),
		client.ID, alice.ID, seedDate, "12:00", "Manicure", manicure)

	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)
	assert.Empty(t, engine.Appointments())
	assert.Equal(t, []string{"10:00", "11:00", "15:00"}, openTimes(alice, seedDate))
}

func TestBook_UnknownParty_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	client := firstClient(t, engine)
	ctx := context.Background()

	_, err := engine.BookAppointment(ctx, 999, alice.ID, seedDate, "10:00", "Manicure", manicure)
	assert.ErrorIs(t, err, booking.ErrUnknownParty)

	_, err = engine.BookAppointment(ctx, client.ID, 999, seedDate, "10:00", "Manicure", manicure)
	assert.ErrorIs(t, err, booking.ErrUnknownParty)

	assert.Empty(t, engine.Appointments())
}

func TestBook_InvalidDate_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	client := firstClient(t, engine)

	for _, bad := range []string{"21-11-2025", "2025/11/21", "not-a-date", ""} {
		_, err := engine.BookAppointment(context.Background(),
			client.ID, alice.ID, bad, "10:00", "Manicure", manicure)
		assert.ErrorIs(t, err, booking.ErrInvalidDate, "date %q", bad)
	}
}

// =============================================================================
// CANCELLATION
// =============================================================================

func TestCancel_RestoresExactPreBookingState(t *testing.T) {
	// GIVEN: A booked 10:00 appointment with Alice
	// WHEN: It is canceled
	// THEN: Status becomes Canceled, the slot reappears re-sorted, and the
	//       record survives for audit

	engine, mem := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	client := firstClient(t, engine)
	ctx := context.Background()

	appt, err := engine.BookAppointment(ctx, client.ID, alice.ID, seedDate, "10:00", "Manicure", manicure)
	require.NoError(t, err)

	canceled, restored, err := engine.CancelAppointment(ctx, appt.ID)
	require.NoError(t, err)

	assert.True(t, restored)
	assert.Equal(t, booking.StatusCanceled, canceled.Status)
	assert.Equal(t, []string{"10:00", "11:00", "15:00"}, openTimes(alice, seedDate))

	// Filtered out of the schedule bucket, retained in the global map
	assert.Empty(t, alice.Schedule.AppointmentsOn(seedDate))
	assert.Len(t, engine.Appointments(), 1)

	// Persisted status flipped
	records, err := mem.LoadAll(context.Background(), booking.KindAppointment)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Canceled", records[0][7])
}

func TestCancel_Twice_Rejected(t *testing.T) {
	// GIVEN: An appointment already canceled
	// WHEN: Canceling it again
	// THEN: UnknownAppointment, and availability is unchanged (no duplicate
	//       slot insertion)

	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	client := firstClient(t, engine)
	ctx := context.Background()

	appt, err := engine.BookAppointment(ctx, client.ID, alice.ID, seedDate, "10:00", "Manicure", manicure)
	require.NoError(t, err)
	_, _, err = engine.CancelAppointment(ctx, appt.ID)
	require.NoError(t, err)

	_, _, err = engine.CancelAppointment(ctx, appt.ID)
	assert.ErrorIs(t, err, booking.ErrUnknownAppointment)
	assert.Equal(t, []string{"10:00", "11:00", "15:00"}, openTimes(alice, seedDate))
}

func TestCancel_UnknownID_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, _, err := engine.CancelAppointment(context.Background(), 9999)
	assert.ErrorIs(t, err, booking.ErrUnknownAppointment)
}

func TestCancel_SlotIndependentlyReopened_NoOp(t *testing.T) {
	// GIVEN: The technician re-published the booked slot before the
	//        cancellation landed
	// WHEN: The appointment is canceled
	// THEN: Restoration is a silent no-op (no duplicate), reported via the
	//       restored flag

	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	client := firstClient(t, engine)
	ctx := context.Background()

	appt, err := engine.BookAppointment(ctx, client.ID, alice.ID, seedDate, "10:00", "Manicure", manicure)
	require.NoError(t, err)
	require.NoError(t, engine.TechnicianAddSlot(alice.ID, seedDate, "10:00"))

	_, restored, err := engine.CancelAppointment(ctx, appt.ID)
	require.NoError(t, err)

	assert.False(t, restored)
	assert.Equal(t, []string{"10:00", "11:00", "15:00"}, openTimes(alice, seedDate))
}

// =============================================================================
// OPEN-SLOT SEARCH
// =============================================================================

func TestFindOpenSlots_AllTechnicians(t *testing.T) {
	// GIVEN: Fresh bootstrap state (Alice 3 slots, Bob 2 slots)
	// WHEN: Searching the seed date
	// THEN: 5 tuples, technician order then ascending time

	engine, _ := newTestEngine(t)

	slots := engine.FindOpenSlots(seedDate)
	require.Len(t, slots, 5)

	var times []string
	for _, s := range slots {
		times = append(times, s.TechnicianName+" "+s.Time)
	}
	assert.Equal(t, []string{
		"Alice 10:00", "Alice 11:00", "Alice 15:00",
		"Bob 14:00", "Bob 16:00",
	}, times)
}

func TestFindOpenSlots_UnknownDate_Empty(t *testing.T) {
	engine, _ := newTestEngine(t)
	assert.Empty(t, engine.FindOpenSlots("2030-01-01"))
}

// =============================================================================
// LEDGER/SCHEDULE CONSISTENCY INVARIANT
// =============================================================================

func TestAvailabilityAndBookedAppointments_AreDisjoint(t *testing.T) {
	// For every technician and date+time: the slot is open if and only if
	// no Booked appointment exists for that technician at that date+time.

	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")
	bob := technicianNamed(t, engine, "Bob")
	client := firstClient(t, engine)
	ctx := context.Background()

	a1, err := engine.BookAppointment(ctx, client.ID, alice.ID, seedDate, "11:00", "Pedicure", decimal.NewFromInt(45))
	require.NoError(t, err)
	_, err = engine.BookAppointment(ctx, client.ID, bob.ID, seedDate, "14:00", "Gel Manicure", decimal.NewFromInt(55))
	require.NoError(t, err)
	_, _, err = engine.CancelAppointment(ctx, a1.ID)
	require.NoError(t, err)

	for _, tech := range engine.Technicians() {
		booked := make(map[string]bool)
		for _, a := range engine.Appointments() {
			if a.Technician.ID == tech.ID && a.Status == booking.StatusBooked {
				booked[a.Date+" "+a.Time] = true
			}
		}
		for _, date := range tech.Availability.Dates() {
			for tok := range tech.Availability.OpenTimes(date) {
				assert.False(t, booked[date+" "+tok],
					"%s has %s %s both open and booked", tech.Name, date, tok)
			}
		}
		for _, a := range engine.Appointments() {
			if a.Technician.ID == tech.ID && a.Status == booking.StatusBooked {
				assert.False(t, tech.Availability.IsOpen(a.Date, a.Time),
					"%s booked slot %s %s still open", tech.Name, a.Date, a.Time)
			}
		}
	}
}

// =============================================================================
// SLOT MANAGEMENT
// =============================================================================

func TestTechnicianAddSlot_Duplicate_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")

	err := engine.TechnicianAddSlot(alice.ID, seedDate, "10:00")
	assert.ErrorIs(t, err, booking.ErrAlreadyAvailable)
}

func TestTechnicianAddSlot_InvalidDate_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")

	err := engine.TechnicianAddSlot(alice.ID, "November 21st", "10:00")
	assert.ErrorIs(t, err, booking.ErrInvalidDate)
}

func TestTechnicianRemoveSlot_Absent_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	alice := technicianNamed(t, engine, "Alice")

	err := engine.TechnicianRemoveSlot(alice.ID, seedDate, "23:00")
	assert.ErrorIs(t, err, booking.ErrNotAvailable)
}

func TestTechnicianSlots_UnknownTechnician_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)

	assert.ErrorIs(t, engine.TechnicianAddSlot(999, seedDate, "10:00"), booking.ErrUnknownParty)
	assert.ErrorIs(t, engine.TechnicianRemoveSlot(999, seedDate, "10:00"), booking.ErrUnknownParty)
}

// =============================================================================
// STARTUP RECONSTRUCTION
// =============================================================================

func TestReload_SubtractsBookedButNotCanceled(t *testing.T) {
	// GIVEN: One Booked (Alice 10:00) and one Canceled (Alice 11:00)
	//        appointment persisted
	// WHEN: A new engine reconstructs from the same store
	// THEN: 10:00 is subtracted from the seed window, 11:00 is not

	mem := store.NewMemory()
	ctx := context.Background()

	first, err := booking.NewEngine(ctx, mem)
	require.NoError(t, err)
	alice := technicianNamed(t, first, "Alice")
	client := firstClient(t, first)

	_, err = first.BookAppointment(ctx, client.ID, alice.ID, seedDate, "10:00", "Manicure", manicure)
	require.NoError(t, err)
	a2, err := first.BookAppointment(ctx, client.ID, alice.ID, seedDate, "11:00", "Pedicure", manicure)
	require.NoError(t, err)
	_, _, err = first.CancelAppointment(ctx, a2.ID)
	require.NoError(t, err)

	second, err := booking.NewEngine(ctx, mem)
	require.NoError(t, err)
	reloadedAlice := technicianNamed(t, second, "Alice")

	assert.Equal(t, []string{"11:00", "15:00"}, openTimes(reloadedAlice, seedDate))
	assert.Len(t, second.Appointments(), 2)
}

func TestReload_IdentifiersNeverReused(t *testing.T) {
	// GIVEN: Persisted records with identifier gaps
	// WHEN: A new engine reconstructs and issues fresh identifiers
	// THEN: Every new identifier is strictly greater than any persisted one

	mem := store.NewMemory()
	ctx := context.Background()

	first, err := booking.NewEngine(ctx, mem)
	require.NoError(t, err)
	alice := technicianNamed(t, first, "Alice")
	client := firstClient(t, first)

	appt, err := first.BookAppointment(ctx, client.ID, alice.ID, seedDate, "10:00", "Manicure", manicure)
	require.NoError(t, err)
	assert.Equal(t, booking.AppointmentID(3001), appt.ID)

	// Simulate a gap: a client registered elsewhere with a far-ahead ID
	require.NoError(t, mem.AppendOne(ctx, booking.KindClient, []string{"150", "Walk In", "555-0000"}))

	second, err := booking.NewEngine(ctx, mem)
	require.NoError(t, err)

	newClient, err := second.RegisterClient(ctx, "Dana", "555-9999")
	require.NoError(t, err)
	assert.Equal(t, booking.ClientID(151), newClient.ID)

	reloadedAlice := technicianNamed(t, second, "Alice")
	next, err := second.BookAppointment(ctx, newClient.ID, reloadedAlice.ID, seedDate, "11:00", "Pedicure", manicure)
	require.NoError(t, err)
	assert.Equal(t, booking.AppointmentID(3002), next.ID)

	newTech, err := second.RegisterTechnician(ctx, "Erin")
	require.NoError(t, err)
	assert.Greater(t, int(newTech.ID), 202)
}

func TestReload_SkipsUnresolvedReferences(t *testing.T) {
	// GIVEN: A persisted appointment referencing a client that no longer
	//        resolves
	// WHEN: The engine reconstructs
	// THEN: The record is skipped, not fatal, and availability is untouched

	mem := store.NewMemory()
	ctx := context.Background()

	_, err := booking.NewEngine(ctx, mem)
	require.NoError(t, err)

	orphan := [][]string{{"3001", seedDate, "10:00", "999", "201", "Manicure", "45.00", "Booked"}}
	require.NoError(t, mem.RewriteAll(ctx, booking.KindAppointment, orphan))

	engine, err := booking.NewEngine(ctx, mem)
	require.NoError(t, err)

	assert.Empty(t, engine.Appointments())
	alice := technicianNamed(t, engine, "Alice")
	assert.Equal(t, []string{"10:00", "11:00", "15:00"}, openTimes(alice, seedDate))
}

// =============================================================================
// DIRECTORY
// =============================================================================

func TestRegisterClient_PersistsRecord(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	client, err := engine.RegisterClient(ctx, "Dana", "555-9999")
	require.NoError(t, err)

	records, err := mem.LoadAll(ctx, booking.KindClient)
	require.NoError(t, err)
	require.Len(t, records, 2) // default client + Dana
	assert.Equal(t, []string{client.ID.String(), "Dana", "555-9999"}, records[1])
}

func TestLookup_Unknown_ReturnsNotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.LookupClient(999)
	assert.ErrorIs(t, err, booking.ErrUnknownParty)
	assert.True(t, booking.IsNotFound(err))

	_, err = engine.LookupTechnician(999)
	assert.ErrorIs(t, err, booking.ErrUnknownParty)

	_, err = engine.LookupAppointment(999)
	assert.ErrorIs(t, err, booking.ErrUnknownAppointment)
}
