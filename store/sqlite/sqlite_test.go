package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/salon-engine/booking"
	"github.com/warp/salon-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadAll_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	records, err := store.LoadAll(context.Background(), booking.KindTechnician)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendOne_And_NumericOrdering(t *testing.T) {
	// Identifiers are stored as text but must load in numeric order:
	// 9 before 10, not after.

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendOne(ctx, booking.KindClient, []string{"10", "Ten", "555-0010"}))
	require.NoError(t, store.AppendOne(ctx, booking.KindClient, []string{"9", "Nine", "555-0009"}))

	records, err := store.LoadAll(ctx, booking.KindClient)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "9", records[0][0])
	assert.Equal(t, "10", records[1][0])
}

func TestRewriteAll_ReplacesAtomically(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := [][]string{{"3001", "2025-11-21", "10:00", "101", "201", "Manicure", "45.00", "Booked"}}
	require.NoError(t, store.RewriteAll(ctx, booking.KindAppointment, first))

	second := [][]string{
		{"3001", "2025-11-21", "10:00", "101", "201", "Manicure", "45.00", "Canceled"},
		{"3002", "2025-11-21", "11:00", "101", "201", "Pedicure", "45.00", "Booked"},
	}
	require.NoError(t, store.RewriteAll(ctx, booking.KindAppointment, second))

	records, err := store.LoadAll(ctx, booking.KindAppointment)
	require.NoError(t, err)
	assert.Equal(t, second, records)
}

func TestAppendOne_FieldCountMismatch_Rejected(t *testing.T) {
	store := newTestStore(t)

	err := store.AppendOne(context.Background(), booking.KindTechnician, []string{"201"})
	assert.Error(t, err)
}

func TestEngine_OverSQLiteStore(t *testing.T) {
	// Full integration: bootstrap, book, cancel against SQLite.

	store := newTestStore(t)
	ctx := context.Background()

	engine, err := booking.NewEngine(ctx, store)
	require.NoError(t, err)

	var bob *booking.Technician
	for _, tech := range engine.Technicians() {
		if tech.Name == "Bob" {
			bob = tech
		}
	}
	require.NotNil(t, bob)
	client := engine.Clients()[0]

	appt, err := engine.BookAppointment(ctx, client.ID, bob.ID, "2025-11-21", "14:00", "Gel Pedicure", booking.DefaultCatalog()["4"].Price)
	require.NoError(t, err)

	records, err := store.LoadAll(ctx, booking.KindAppointment)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "55.00", records[0][6])

	_, restored, err := engine.CancelAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.True(t, restored)

	records, err = store.LoadAll(ctx, booking.KindAppointment)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Canceled", records[0][7])
}
