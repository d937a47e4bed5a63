/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  them through a shared Validate instance before touching the engine.
  Domain-level checks (slot availability, date syntax) remain with the
  engine - the tags only reject structurally bad payloads early.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import "github.com/warp/salon-engine/booking"

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ClientDTO represents a client in API responses.
type ClientDTO struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateClientRequest is the request to register a client.
type CreateClientRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// TechnicianDTO represents a technician in API responses.
type TechnicianDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateTechnicianRequest is the request to register a technician.
type CreateTechnicianRequest struct {
	Name string `json:"name" validate:"required"`
}

// SlotRequest adds or removes one availability slot.
type SlotRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// OpenSlotDTO is one bookable tuple from the open-slot search.
type OpenSlotDTO struct {
	TechnicianID   int    `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// ServiceDTO is one catalog entry.
type ServiceDTO struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// BookAppointmentRequest books a slot. The service is selected by catalog
// key; the handler resolves name and price.
type BookAppointmentRequest struct {
	ClientID     int    `json:"client_id" validate:"required"`
	TechnicianID int    `json:"technician_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Time         string `json:"time" validate:"required"`
	ServiceKey   string `json:"service_key" validate:"required"`
}

// AppointmentDTO represents an appointment in API responses.
type AppointmentDTO struct {
	ID             int    `json:"id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ClientID       int    `json:"client_id"`
	ClientName     string `json:"client_name"`
	TechnicianID   int    `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
	Service        string `json:"service"`
	Price          string `json:"price"`
	Status         string `json:"status"`
}

// CancelResponse reports a cancellation outcome. SlotRestored is false when
// the slot had been independently re-opened before the cancellation.
type CancelResponse struct {
	Appointment  AppointmentDTO `json:"appointment"`
	SlotRestored bool           `json:"slot_restored"`
}

// ScheduleEntryDTO is one schedule-log line for a technician's day view.
type ScheduleEntryDTO struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	ClientID     int    `json:"client_id"`
	ClientName   string `json:"client_name"`
	Service      string `json:"service"`
	Status       string `json:"status"`
	Appointment  int    `json:"appointment_id"`
}

func toAppointmentDTO(a *booking.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:             int(a.ID),
		Date:           a.Date,
		Time:           a.Time,
		ClientID:       int(a.Client.ID),
		ClientName:     a.Client.Name,
		TechnicianID:   int(a.Technician.ID),
		TechnicianName: a.Technician.Name,
		Service:        a.Service,
		Price:          a.Price.StringFixed(2),
		Status:         string(a.Status),
	}
}
