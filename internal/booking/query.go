package booking

import (
	"context"
	"strings"
)

func (s *service) Get(ctx context.Context, id string) (*Response, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, b), nil
}

// List applies the boundary rule for combined filters:
// a user filter wins and the status filter is ignored; no filter at all is rejected.
func (s *service) List(ctx context.Context, filter Filter) ([]*Response, error) {
	switch {
	case strings.TrimSpace(filter.UserID) != "":
		return s.ListByUser(ctx, filter.UserID)
	case filter.Status != "":
		return s.ListByStatus(ctx, filter.Status)
	default:
		return nil, ErrFilterRequired
	}
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Response, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, bookings), nil
}

func (s *service) ListByStatus(ctx context.Context, statusText string) ([]*Response, error) {
	st, err := ParseStatus(statusText)
	if err != nil {
		s.logger.InfoContext(ctx, "invalid status requested", "status", statusText)
		return nil, err
	}

	bookings, err := s.repo.ListByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, bookings), nil
}

func (s *service) enrichAll(ctx context.Context, bookings []*Booking) []*Response {
	out := make([]*Response, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, s.enrich(ctx, b))
	}
	return out
}

// enrich resolves descriptions for b. Lookup failures degrade to placeholders
// so one bad entry never aborts a whole list.
func (s *service) enrich(ctx context.Context, b *Booking) *Response {
	vehicle, err := s.lookup.DescribeVehicle(ctx, b.VehicleID)
	if err != nil {
		s.logger.WarnContext(ctx, "vehicle lookup failed", "booking_id", b.ID, "error", err)
		vehicle = UnknownVehicle
	}

	services, err := s.lookup.DescribeServices(ctx, b.ServiceIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "service lookup failed", "booking_id", b.ID, "error", err)
		services = UnknownServices
	}

	return &Response{
		Booking:            b,
		VehicleDescription: vehicle,
		ServiceNames:       services,
	}
}
