package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// total_price is NUMERIC(12,2).
const priceScale = 2

var maxPrice = decimal.New(1, 12-priceScale)

type CreateRequest struct {
	UserID          string
	VehicleID       string
	ServiceIDs      []string
	BookingDate     time.Time
	AdditionalNotes *string
	PaymentMethod   *string
	PhoneNumber     *string
	TotalPrice      decimal.Decimal

	// IdempotencyKey is optional. A repeated key returns the booking created the first time.
	IdempotencyKey string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Cancel(ctx context.Context, id string) (*Booking, error)
	Archive(ctx context.Context, id string) (*Booking, error)

	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, filter Filter) ([]*Response, error)
	ListByUser(ctx context.Context, userID string) ([]*Response, error)
	ListByStatus(ctx context.Context, statusText string) ([]*Response, error)
}

type service struct {
	repo      Repository
	lookup    NamingLookup
	publisher EventPublisher
	idem      IdempotencyStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the booking lifecycle and query logic.
// publisher and idem may be nil, in which case events are dropped and idempotency keys are ignored.
func NewService(repo Repository, lookup NamingLookup, publisher EventPublisher, idem IdempotencyStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:      repo,
		lookup:    lookup,
		publisher: publisher,
		idem:      idem,
		logger:    logger.With("component", "booking"),
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Validate Request
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	// 2. Replay a previous result for the same idempotency key
	if existing, ok := s.replay(ctx, req.UserID, req.IdempotencyKey); ok {
		return existing, nil
	}

	// 3. Create Booking
	serviceIDs := req.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []string{}
	}
	b := &Booking{
		UserID:          req.UserID,
		VehicleID:       req.VehicleID,
		ServiceIDs:      serviceIDs,
		BookingDate:     req.BookingDate,
		Status:          StatusPending, // Only entry state
		AdditionalNotes: req.AdditionalNotes,
		PaymentMethod:   req.PaymentMethod,
		PhoneNumber:     req.PhoneNumber,
		TotalPrice:      req.TotalPrice,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "booking created", "booking_id", b.ID, "user_id", b.UserID)

	if req.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, req.UserID, req.IdempotencyKey, b.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to remember idempotency key", "booking_id", b.ID, "error", err)
		}
	}

	s.publish(ctx, EventCreated, b)
	return b, nil
}

func (s *service) validateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return ErrUserRequired
	}
	if strings.TrimSpace(req.VehicleID) == "" {
		return ErrVehicleRequired
	}
	if req.BookingDate.IsZero() {
		return ErrDateRequired
	}
	// Strict check: the date must lie after the current instant
	if !req.BookingDate.After(s.now()) {
		return ErrDateNotFuture
	}
	// A nil service list is treated the same as an empty one
	for _, id := range req.ServiceIDs {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidServiceList
		}
	}
	if req.TotalPrice.IsNegative() {
		return ErrNegativePrice
	}
	if !req.TotalPrice.Equal(req.TotalPrice.Round(priceScale)) {
		return ErrPricePrecision
	}
	if req.TotalPrice.GreaterThanOrEqual(maxPrice) {
		return ErrPriceTooLarge
	}
	return nil
}

// replay returns the booking a previous request from the same user with the same key produced.
// Cache failures are logged and treated as a miss.
func (s *service) replay(ctx context.Context, userID, key string) (*Booking, bool) {
	if key == "" || s.idem == nil {
		return nil, false
	}

	id, found, err := s.idem.Lookup(ctx, userID, key)
	if err != nil {
		s.logger.WarnContext(ctx, "idempotency lookup failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to load replayed booking", "booking_id", id, "error", err)
		}
		return nil, false
	}
	// Never hand out another user's booking
	if b.UserID != userID {
		s.logger.WarnContext(ctx, "idempotency key resolved to a foreign booking", "booking_id", id)
		return nil, false
	}
	return b, true
}

func (s *service) Cancel(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, StatusCancelled, EventCancelled)
}

func (s *service) Archive(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, StatusArchived, EventArchived)
}

// transition reads the booking, moves it to target in memory and writes it back.
// Concurrent callers race with last-write-wins semantics.
func (s *service) transition(ctx context.Context, id string, target Status, evt EventType) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !b.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	from := b.Status
	if from.IsTerminal() {
		s.logger.InfoContext(ctx, "changing status of a terminal booking", "booking_id", b.ID, "from", from, "to", target)
	}
	b.Status = target
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "booking status changed", "booking_id", b.ID, "from", from, "to", target)

	s.publish(ctx, evt, b)
	return b, nil
}

// publish is best effort: the store write has already happened.
func (s *service) publish(ctx context.Context, typ EventType, b *Booking) {
	if s.publisher == nil {
		return
	}
	evt := Event{Type: typ, Booking: *b, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "failed to publish booking event", "event", typ, "booking_id", b.ID, "error", err)
	}
}
