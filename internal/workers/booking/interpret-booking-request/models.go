// internal/workers/booking/interpret-booking-request/models.go
package interpretbookingrequest

import (
	"tennis-booking/internal/booking"
	"tennis-booking/internal/models"
)

type Input struct {
	RequestText   string `json:"requestText"`
	ReferenceTime string `json:"referenceTime,omitempty"` // RFC 3339; defaults to now
	RequestID     string `json:"requestId,omitempty"`
}

type Output struct {
	Booking       *models.BookingRecord        `json:"booking"`
	Display       map[string]map[string]string `json:"display"`
	Sections      []booking.Section            `json:"sections"`
	InterpretedAt string                       `json:"interpretedAt"`
}
