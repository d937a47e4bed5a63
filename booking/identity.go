/*
identity.go - Monotonic identifier issuance per entity kind

PURPOSE:
  The Registry hands out numeric identifiers for clients, technicians, and
  appointments. Identifiers are strictly increasing and never reused, even
  across restarts: at load time each counter is seeded from the highest
  identifier found in the persisted records (+1), or a fixed default when
  no records exist.

DEFAULT SEEDS:
  Clients start at 101, technicians at 201, appointments at 3001. The
  disjoint ranges make identifiers recognizable at a glance in record files
  and terminal output.

SEE ALSO:
  - engine.go: Seeds the registry during startup reconstruction
*/
package booking

// =============================================================================
// REGISTRY - Per-kind monotonic counters
// =============================================================================

const (
	firstClientID      = 101
	firstTechnicianID  = 201
	firstAppointmentID = 3001
)

type Registry struct {
	nextClient      int
	nextTechnician  int
	nextAppointment int
}

func NewRegistry() *Registry {
	return &Registry{
		nextClient:      firstClientID,
		nextTechnician:  firstTechnicianID,
		nextAppointment: firstAppointmentID,
	}
}

// NextClient issues a fresh client identifier.
func (r *Registry) NextClient() ClientID {
	id := ClientID(r.nextClient)
	r.nextClient++
	return id
}

// NextTechnician issues a fresh technician identifier.
func (r *Registry) NextTechnician() TechnicianID {
	id := TechnicianID(r.nextTechnician)
	r.nextTechnician++
	return id
}

// NextAppointment issues a fresh appointment identifier.
func (r *Registry) NextAppointment() AppointmentID {
	id := AppointmentID(r.nextAppointment)
	r.nextAppointment++
	return id
}

// SeedClient raises the client counter so the next issued identifier is
// strictly greater than max. Never lowers the counter.
func (r *Registry) SeedClient(max ClientID) {
	if int(max)+1 > r.nextClient {
		r.nextClient = int(max) + 1
	}
}

func (r *Registry) SeedTechnician(max TechnicianID) {
	if int(max)+1 > r.nextTechnician {
		r.nextTechnician = int(max) + 1
	}
}

func (r *Registry) SeedAppointment(max AppointmentID) {
	if int(max)+1 > r.nextAppointment {
		r.nextAppointment = int(max) + 1
	}
}
