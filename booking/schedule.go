/*
schedule.go - Per-technician appointment log

PURPOSE:
  The ScheduleLog maps a calendar date to the list of appointments touching
  that technician on that date, in booking order. It exists for read-only
  reporting (a technician viewing their day); it is never consulted to
  decide whether a slot can be booked - that is the availability ledger's
  job alone.

  On cancellation the appointment is filtered out of its date bucket, but
  the record itself survives in the engine's global appointment map and on
  disk for audit.

SEE ALSO:
  - availability.go: The booking-decision structure
  - engine.go: Mutates both structures together
*/
package booking

import "sort"

// =============================================================================
// SCHEDULE LOG
// =============================================================================

type ScheduleLog struct {
	byDate map[string][]*Appointment // date -> appointments in booking order
}

func NewScheduleLog() *ScheduleLog {
	return &ScheduleLog{byDate: make(map[string][]*Appointment)}
}

// Append records an appointment under its date. Append-only; list order is
// booking order.
func (s *ScheduleLog) Append(a *Appointment) {
	s.byDate[a.Date] = append(s.byDate[a.Date], a)
}

// Remove filters the appointment out of its date bucket.
func (s *ScheduleLog) Remove(date string, id AppointmentID) {
	appts := s.byDate[date]
	kept := appts[:0]
	for _, a := range appts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		delete(s.byDate, date)
	} else {
		s.byDate[date] = kept
	}
}

// AppointmentsOn returns the appointments for date, in booking order.
func (s *ScheduleLog) AppointmentsOn(date string) []*Appointment {
	appts := s.byDate[date]
	out := make([]*Appointment, len(appts))
	copy(out, appts)
	return out
}

// Dates returns every date with at least one logged appointment, ascending.
func (s *ScheduleLog) Dates() []string {
	dates := make([]string, 0, len(s.byDate))
	for d := range s.byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
