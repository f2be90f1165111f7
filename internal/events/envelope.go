package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/service-booking-backend/internal/booking"
)

const EnvelopeVersion = 1

// Envelope wraps every lifecycle event written to the topic.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // booking id
	Payload       json.RawMessage `json:"payload"`
}

// BookingPayload is the payload shared by all booking lifecycle events.
type BookingPayload struct {
	BookingID   string          `json:"booking_id"`
	UserID      string          `json:"user_id"`
	VehicleID   string          `json:"vehicle_id"`
	ServiceIDs  []string        `json:"service_ids"`
	BookingDate time.Time       `json:"booking_date"`
	Status      string          `json:"status"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newBookingPayload(b booking.Booking) BookingPayload {
	serviceIDs := b.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []string{}
	}
	return BookingPayload{
		BookingID:   b.ID,
		UserID:      b.UserID,
		VehicleID:   b.VehicleID,
		ServiceIDs:  serviceIDs,
		BookingDate: b.BookingDate,
		Status:      string(b.Status),
		TotalPrice:  b.TotalPrice,
		UpdatedAt:   b.UpdatedAt,
	}
}
