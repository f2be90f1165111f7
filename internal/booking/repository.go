package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/service-booking-backend/internal/pkg/apperror"
)

type Repository interface {
	// Create inserts the booking and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// Update writes the mutable fields back and refreshes UpdatedAt.
	Update(ctx context.Context, booking *Booking) error
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	ListByStatus(ctx context.Context, status Status) ([]*Booking, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"id", "user_id", "vehicle_id", "service_ids", "booking_date", "status",
	"additional_notes", "payment_method", "phone_number", "total_price",
	"created_at", "updated_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func buildInsertQuery(b *Booking) (string, []any, error) {
	return psql.Insert("public.bookings").
		Columns(
			"user_id", "vehicle_id", "service_ids", "booking_date", "status",
			"additional_notes", "payment_method", "phone_number", "total_price",
		).
		Values(
			b.UserID, b.VehicleID, b.ServiceIDs, b.BookingDate, b.Status,
			b.AdditionalNotes, b.PaymentMethod, b.PhoneNumber, b.TotalPrice,
		).
		Suffix("RETURNING id, total_price, created_at, updated_at").
		ToSql()
}

func buildSelectQuery(where squirrel.Sqlizer) (string, []any, error) {
	return psql.Select(bookingColumns...).
		From("public.bookings").
		Where(where).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
}

func buildUpdateQuery(b *Booking) (string, []any, error) {
	return psql.Update("public.bookings").
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := buildInsertQuery(b)
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	// total_price comes back as stored, after the column's rounding
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return translateCreateError(err)
	}
	return nil
}

// translateCreateError maps input-related Postgres failures to validation errors.
// Everything else means the store is unavailable.
func translateCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.InvalidTextRepresentation:
			return apperror.Wrap(err, http.StatusBadRequest, "malformed identifier")
		case pgerrcode.NumericValueOutOfRange:
			return apperror.Wrap(err, http.StatusBadRequest, "total price is out of range")
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apperror.Wrap(err, http.StatusBadRequest, "booking violates a constraint")
		}
	}
	return apperror.Dependency(fmt.Errorf("create booking failed: %w", err), "booking store unavailable")
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := buildSelectQuery(squirrel.Eq{"id": id})
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, ErrNotFound
		}
		return nil, apperror.Dependency(fmt.Errorf("get booking failed: %w", err), "booking store unavailable")
	}
	return b, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	query, args, err := buildUpdateQuery(b)
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return apperror.Dependency(fmt.Errorf("update booking failed: %w", err), "booking store unavailable")
	}
	return nil
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID})
}

func (r *pgxRepository) ListByStatus(ctx context.Context, status Status) ([]*Booking, error) {
	return r.list(ctx, squirrel.Eq{"status": status})
}

func (r *pgxRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*Booking, error) {
	query, args, err := buildSelectQuery(where)
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			// A malformed id cannot own any booking
			return []*Booking{}, nil
		}
		return nil, apperror.Dependency(fmt.Errorf("list bookings failed: %w", err), "booking store unavailable")
	}
	defer rows.Close()

	bookings := []*Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, apperror.Dependency(fmt.Errorf("scan booking failed: %w", err), "booking store unavailable")
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		if isInvalidText(err) {
			return []*Booking{}, nil
		}
		return nil, apperror.Dependency(fmt.Errorf("list bookings failed: %w", err), "booking store unavailable")
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.UserID, &b.VehicleID, &b.ServiceIDs, &b.BookingDate, &b.Status,
		&b.AdditionalNotes, &b.PaymentMethod, &b.PhoneNumber, &b.TotalPrice,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if !b.Status.IsValid() {
		return nil, fmt.Errorf("booking %s has unknown status %q", b.ID, b.Status)
	}
	if b.ServiceIDs == nil {
		b.ServiceIDs = []string{}
	}
	return &b, nil
}

func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
