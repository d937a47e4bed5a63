/*
handlers.go - HTTP API handlers for the salon booking engine

PURPOSE:
  Exposes the booking engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine.

ENDPOINTS:
  Clients:
    GET    /api/clients                    List all clients
    POST   /api/clients                    Register client
    GET    /api/clients/{id}               Get client
    GET    /api/clients/{id}/appointments  Client's appointments

  Technicians:
    GET    /api/technicians                List all technicians
    POST   /api/technicians                Register technician
    GET    /api/technicians/{id}           Get technician
    GET    /api/technicians/{id}/schedule  Schedule log (optional ?date=)
    POST   /api/technicians/{id}/slots     Add availability slot
    DELETE /api/technicians/{id}/slots     Remove slot (?date=&time=)

  Booking:
    GET    /api/slots?date=YYYY-MM-DD      Open slots across technicians
    GET    /api/services                   Service catalog
    GET    /api/appointments               All appointments
    POST   /api/appointments               Book an appointment
    GET    /api/appointments/{id}          Get appointment
    DELETE /api/appointments/{id}          Cancel appointment

ERROR HANDLING:
  Engine errors map to HTTP status via the booking error classifiers:
  - 400: Invalid date, malformed payloads and identifiers
  - 404: Unknown client/technician/appointment
  - 409: Slot conflicts (unavailable, duplicate add, absent remove)
  - 500: Persistence failures

CONCURRENCY:
  The engine is single-threaded by contract. One mutex serializes every
  engine call, making each booking/cancellation transaction (ledger +
  schedule + durable write) a single critical section.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/warp/salon-engine/booking"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu       sync.Mutex
	engine   *booking.Engine
	catalog  booking.Catalog
	validate *validator.Validate
}

// NewHandler creates a handler around an engine and a service catalog.
func NewHandler(engine *booking.Engine, catalog booking.Catalog) *Handler {
	return &Handler{
		engine:   engine,
		catalog:  catalog,
		validate: validator.New(),
	}
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	clients := h.engine.Clients()
	h.mu.Unlock()

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = ClientDTO{ID: int(c.ID), Name: c.Name, Phone: c.Phone}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClient registers a new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Name and phone are required", err)
		return
	}

	h.mu.Lock()
	client, err := h.engine.RegisterClient(r.Context(), req.Name, req.Phone)
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Failed to register client", err)
		return
	}
	writeJSON(w, http.StatusCreated, ClientDTO{ID: int(client.ID), Name: client.Name, Phone: client.Phone})
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	client, err := h.engine.LookupClient(booking.ClientID(id))
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Client not found", err)
		return
	}
	writeJSON(w, http.StatusOK, ClientDTO{ID: int(client.ID), Name: client.Name, Phone: client.Phone})
}

// ListClientAppointments returns a client's appointments, any status.
func (h *Handler) ListClientAppointments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	_, err := h.engine.LookupClient(booking.ClientID(id))
	var appts []*booking.Appointment
	if err == nil {
		appts = h.engine.AppointmentsForClient(booking.ClientID(id))
	}
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Client not found", err)
		return
	}

	dtos := make([]AppointmentDTO, len(appts))
	for i, a := range appts {
		dtos[i] = toAppointmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// TECHNICIAN HANDLERS
// =============================================================================

// ListTechnicians returns all technicians in registration order.
func (h *Handler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	techs := h.engine.Technicians()
	h.mu.Unlock()

	dtos := make([]TechnicianDTO, len(techs))
	for i, t := range techs {
		dtos[i] = TechnicianDTO{ID: int(t.ID), Name: t.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTechnician registers a new technician.
func (h *Handler) CreateTechnician(w http.ResponseWriter, r *http.Request) {
	var req CreateTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Name is required", err)
		return
	}

	h.mu.Lock()
	tech, err := h.engine.RegisterTechnician(r.Context(), req.Name)
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Failed to register technician", err)
		return
	}
	writeJSON(w, http.StatusCreated, TechnicianDTO{ID: int(tech.ID), Name: tech.Name})
}

// GetTechnician returns a single technician.
func (h *Handler) GetTechnician(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	tech, err := h.engine.LookupTechnician(booking.TechnicianID(id))
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Technician not found", err)
		return
	}
	writeJSON(w, http.StatusOK, TechnicianDTO{ID: int(tech.ID), Name: tech.Name})
}

// GetSchedule returns a technician's schedule log. With ?date= it returns
// that day only; otherwise every logged date in ascending order.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	date := r.URL.Query().Get("date")

	h.mu.Lock()
	tech, err := h.engine.LookupTechnician(booking.TechnicianID(id))
	var entries []ScheduleEntryDTO
	if err == nil {
		dates := []string{date}
		if date == "" {
			dates = tech.Schedule.Dates()
		}
		for _, d := range dates {
			for _, a := range tech.Schedule.AppointmentsOn(d) {
				entries = append(entries, ScheduleEntryDTO{
					Date:        a.Date,
					Time:        a.Time,
					ClientID:    int(a.Client.ID),
					ClientName:  a.Client.Name,
					Service:     a.Service,
					Status:      string(a.Status),
					Appointment: int(a.ID),
				})
			}
		}
	}
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Technician not found", err)
		return
	}
	if entries == nil {
		entries = []ScheduleEntryDTO{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddSlot publishes an availability slot for a technician.
func (h *Handler) AddSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Date and time are required", err)
		return
	}

	h.mu.Lock()
	err := h.engine.TechnicianAddSlot(booking.TechnicianID(id), req.Date, req.Time)
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Failed to add slot", err)
		return
	}
	writeJSON(w, http.StatusCreated, SlotRequest{Date: req.Date, Time: req.Time})
}

// RemoveSlot withdraws an availability slot (?date=&time=).
func (h *Handler) RemoveSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	date := r.URL.Query().Get("date")
	timeTok := r.URL.Query().Get("time")
	if date == "" || timeTok == "" {
		writeError(w, http.StatusBadRequest, "date and time query parameters are required", nil)
		return
	}

	h.mu.Lock()
	err := h.engine.TechnicianRemoveSlot(booking.TechnicianID(id), date, timeTok)
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Failed to remove slot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BOOKING HANDLERS
// =============================================================================

// ListOpenSlots reports every open slot across technicians for a date.
func (h *Handler) ListOpenSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}

	h.mu.Lock()
	slots := h.engine.FindOpenSlots(date)
	h.mu.Unlock()

	dtos := make([]OpenSlotDTO, len(slots))
	for i, s := range slots {
		dtos[i] = OpenSlotDTO{
			TechnicianID:   int(s.TechnicianID),
			TechnicianName: s.TechnicianName,
			Date:           s.Date,
			Time:           s.Time,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListServices returns the service catalog in selection-key order.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	keys := h.catalog.Keys()
	dtos := make([]ServiceDTO, len(keys))
	for i, k := range keys {
		svc := h.catalog[k]
		dtos[i] = ServiceDTO{Key: k, Name: svc.Name, Price: svc.Price.StringFixed(2)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListAppointments returns every appointment, any status.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	appts := h.engine.Appointments()
	h.mu.Unlock()

	dtos := make([]AppointmentDTO, len(appts))
	for i, a := range appts {
		dtos[i] = toAppointmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// BookAppointment books a slot for a client with a catalog service.
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing booking fields", err)
		return
	}
	svc, ok := h.catalog[req.ServiceKey]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid service selection", nil)
		return
	}

	h.mu.Lock()
	appt, err := h.engine.BookAppointment(r.Context(),
		booking.ClientID(req.ClientID), booking.TechnicianID(req.TechnicianID),
		req.Date, req.Time, svc.Name, svc.Price)
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Booking failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentDTO(appt))
}

// GetAppointment returns a single appointment.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	appt, err := h.engine.LookupAppointment(booking.AppointmentID(id))
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Appointment not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentDTO(appt))
}

// CancelAppointment cancels a booked appointment.
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	appt, restored, err := h.engine.CancelAppointment(r.Context(), booking.AppointmentID(id))
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, "Cancellation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, CancelResponse{
		Appointment:  toAppointmentDTO(appt),
		SlotRestored: restored,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func urlID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid identifier", err)
		return 0, false
	}
	return id, true
}

func writeEngineError(w http.ResponseWriter, msg string, err error) {
	switch {
	case booking.IsNotFound(err):
		writeError(w, http.StatusNotFound, msg, err)
	case booking.IsConflict(err):
		writeError(w, http.StatusConflict, msg, err)
	case errors.Is(err, booking.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, msg, err)
	default:
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}
