/*
availability.go - Per-technician open-slot set

PURPOSE:
  The AvailabilityLedger maps a calendar date to an ordered set of open
  time tokens. The set shrinks when a slot is booked and grows when a
  booking is canceled or a technician publishes new hours.

CRITICAL INVARIANTS:
  1. ORDERED: Times for a date are always in ascending order. Maintained by
     binary-search insertion, not post-hoc sorting.
  2. DISTINCT: A time appears at most once per date.
  3. NO EMPTY DATES: When the last time for a date is removed, the date
     entry itself is removed.
  4. SOURCE OF TRUTH: Membership here is THE answer to "is this technician
     free at date+time". The schedule log is never scanned for conflicts.

SEE ALSO:
  - schedule.go: The complementary appointment log
  - engine.go: Keeps ledger and log mutually consistent
*/
package booking

import (
	"iter"
	"sort"
)

// =============================================================================
// AVAILABILITY LEDGER
// =============================================================================

type AvailabilityLedger struct {
	slots map[string][]string // date -> ascending time tokens
}

func NewAvailabilityLedger() *AvailabilityLedger {
	return &AvailabilityLedger{slots: make(map[string][]string)}
}

// AddSlot inserts time into the set for date, keeping ascending order.
// Returns ErrAlreadyAvailable if the slot is already open.
func (l *AvailabilityLedger) AddSlot(date, time string) error {
	times := l.slots[date]
	i := sort.SearchStrings(times, time)
	if i < len(times) && times[i] == time {
		return ErrAlreadyAvailable
	}

	// Insert at position i: O(n) copy, order preserved without re-sorting.
	times = append(times, "")
	copy(times[i+1:], times[i:])
	times[i] = time
	l.slots[date] = times
	return nil
}

// RemoveSlot deletes time from the set for date. Returns ErrNotAvailable if
// the slot is not open. Removes the date entry when its set becomes empty.
func (l *AvailabilityLedger) RemoveSlot(date, time string) error {
	times := l.slots[date]
	i := sort.SearchStrings(times, time)
	if i >= len(times) || times[i] != time {
		return ErrNotAvailable
	}

	times = append(times[:i], times[i+1:]...)
	if len(times) == 0 {
		delete(l.slots, date)
	} else {
		l.slots[date] = times
	}
	return nil
}

// Restore re-opens a slot after cancellation. Unlike AddSlot it treats an
// already-open slot as a no-op: the technician may have independently
// re-published the slot before the cancellation landed. Returns true if the
// slot was inserted, false if it was already open.
func (l *AvailabilityLedger) Restore(date, time string) bool {
	return l.AddSlot(date, time) == nil
}

// IsOpen is a pure membership query.
func (l *AvailabilityLedger) IsOpen(date, time string) bool {
	times := l.slots[date]
	i := sort.SearchStrings(times, time)
	return i < len(times) && times[i] == time
}

// OpenTimes returns a lazy, restartable sequence of the open time tokens for
// date in ascending order. Empty sequence if the date is unknown.
func (l *AvailabilityLedger) OpenTimes(date string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, t := range l.slots[date] {
			if !yield(t) {
				return
			}
		}
	}
}

// Dates returns every date with at least one open slot, ascending.
func (l *AvailabilityLedger) Dates() []string {
	dates := make([]string, 0, len(l.slots))
	for d := range l.slots {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Reset drops all open slots. Used when re-seeding bootstrap availability.
func (l *AvailabilityLedger) Reset() {
	l.slots = make(map[string][]string)
}
