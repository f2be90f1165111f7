package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/service-booking-backend/internal/booking"
)

// ListBookingsRequest defines query parameters for listing bookings.
// When both are set, user_id wins.
type ListBookingsRequest struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Status string `form:"status"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.UserID == "" && r.Status == "" {
		return booking.ErrFilterRequired
	}
	return nil
}

// CreateBookingBody only checks shape. Date and price rules are enforced by the service.
type CreateBookingBody struct {
	UserID          string          `json:"user_id" binding:"required,uuid"`
	VehicleID       string          `json:"vehicle_id" binding:"required,uuid"`
	ServiceIDs      []string        `json:"service_ids" binding:"omitempty,dive,uuid"`
	BookingDate     time.Time       `json:"booking_date" binding:"required"`
	AdditionalNotes *string         `json:"additional_notes" binding:"omitempty,max=2000"`
	PaymentMethod   *string         `json:"payment_method" binding:"omitempty,max=64"`
	PhoneNumber     *string         `json:"phone_number" binding:"omitempty,max=32"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

type BookingResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	VehicleID          string          `json:"vehicle_id"`
	ServiceIDs         []string        `json:"service_ids"`
	BookingDate        time.Time       `json:"booking_date"`
	Status             string          `json:"status"`
	AdditionalNotes    *string         `json:"additional_notes,omitempty"`
	PaymentMethod      *string         `json:"payment_method,omitempty"`
	PhoneNumber        *string         `json:"phone_number,omitempty"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	VehicleDescription string          `json:"vehicle_description,omitempty"`
	ServiceNames       string          `json:"service_names,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	serviceIDs := b.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []string{}
	}
	return BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		VehicleID:       b.VehicleID,
		ServiceIDs:      serviceIDs,
		BookingDate:     b.BookingDate,
		Status:          string(b.Status),
		AdditionalNotes: b.AdditionalNotes,
		PaymentMethod:   b.PaymentMethod,
		PhoneNumber:     b.PhoneNumber,
		TotalPrice:      b.TotalPrice,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// NewEnrichedResponse adds the resolved descriptions to the booking fields.
func NewEnrichedResponse(r *booking.Response) BookingResponse {
	resp := NewBookingResponse(r.Booking)
	resp.VehicleDescription = r.VehicleDescription
	resp.ServiceNames = r.ServiceNames
	return resp
}
