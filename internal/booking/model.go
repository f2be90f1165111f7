package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/service-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("booking not found")
	ErrUserRequired       = apperror.Validation("user id is required")
	ErrVehicleRequired    = apperror.Validation("vehicle id is required")
	ErrDateRequired       = apperror.Validation("booking date is required")
	ErrDateNotFuture      = apperror.Validation("booking date must be in the future")
	ErrNegativePrice      = apperror.Validation("total price must not be negative")
	ErrPricePrecision     = apperror.Validation("total price must have at most 2 decimal places")
	ErrPriceTooLarge      = apperror.Validation("total price is too large")
	ErrInvalidStatus      = apperror.Validation("unrecognized status")
	ErrInvalidTransition  = apperror.Validation("invalid status transition")
	ErrFilterRequired     = apperror.Validation("either user id or status filter is required")
	ErrInvalidServiceList = apperror.Validation("service ids must not be blank")
)

// Placeholders used when a description cannot be resolved.
const (
	UnknownVehicle  = "Unknown Vehicle"
	UnknownServices = "Unknown Services"
)

// Booking is a scheduled service request tying a user, a vehicle and a set of services to a time and price.
type Booking struct {
	ID              string
	UserID          string
	VehicleID       string
	ServiceIDs      []string
	BookingDate     time.Time
	Status          Status
	AdditionalNotes *string
	PaymentMethod   *string
	PhoneNumber     *string
	TotalPrice      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Response is the read model of a Booking enriched with resolved descriptions.
// It is rebuilt on every read and never persisted.
type Response struct {
	*Booking
	VehicleDescription string
	ServiceNames       string
}

// Filter selects bookings for List. UserID takes precedence over Status.
type Filter struct {
	UserID string
	Status string
}

// NamingLookup resolves identifiers into human-readable descriptions.
type NamingLookup interface {
	DescribeVehicle(ctx context.Context, vehicleID string) (string, error)
	DescribeServices(ctx context.Context, serviceIDs []string) (string, error)
}

// EventType names a lifecycle event emitted after a successful write.
type EventType string

const (
	EventCreated   EventType = "booking.created"
	EventCancelled EventType = "booking.cancelled"
	EventArchived  EventType = "booking.archived"
)

// Event is published after a booking has been written to the store.
type Event struct {
	Type       EventType
	Booking    Booking
	OccurredAt time.Time
}

// EventPublisher delivers lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// IdempotencyStore remembers which booking a client-supplied key produced.
// Keys are scoped per user: the same key sent by two users names two entries.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, key string) (bookingID string, found bool, err error)
	Remember(ctx context.Context, userID, key, bookingID string) error
}
