package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/pricing"
)

// ErrRoomUnavailable means another PENDING or CONFIRMED booking overlaps
// the requested date range.
var ErrRoomUnavailable = errors.New("room is not available for the requested dates")

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
	IsRoomAvailable(ctx context.Context, q pricing.AvailabilityQuery) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, room_id, check_in, check_out, guests, token, status, total_cents, guest_name, email, special_requests, expires_at, created_at, updated_at`

// CreatePending inserts the booking only if no live booking overlaps the
// half-open range [check_in, check_out). The overlap check and the insert
// run in one transaction, so two racing requests cannot both succeed.
func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	booking.Status = domain.BookingStatusPending
	err = tx.QueryRow(ctx, `INSERT INTO bookings (room_id, check_in, check_out, guests, token, status, total_cents, guest_name, email, special_requests, expires_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1 AND status IN ('PENDING', 'CONFIRMED')
			  AND check_in < $3 AND check_out > $2
		)
		RETURNING id, created_at, updated_at`,
		booking.RoomID, booking.CheckIn, booking.CheckOut, booking.Guests, booking.Token,
		booking.Status, booking.TotalCents, booking.GuestName, booking.Email,
		booking.SpecialRequests, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRoomUnavailable
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE token=$1`, token)
	return scanBooking(row)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE token=$2 RETURNING `+bookingColumns, status, token)
	return scanBooking(row)
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND expires_at <= $3 RETURNING `+bookingColumns,
		domain.BookingStatusExpired, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

func (r *PGBookingRepository) IsRoomAvailable(ctx context.Context, q pricing.AvailabilityQuery) (bool, error) {
	var available bool
	err := r.db.QueryRow(ctx, `SELECT NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1 AND status IN ('PENDING', 'CONFIRMED')
			  AND check_in < $3::date AND check_out > $2::date
		)`, q.RoomID, q.CheckIn, q.CheckOut).Scan(&available)
	if err != nil {
		return false, err
	}
	return available, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Guests, &b.Token, &b.Status, &b.TotalCents, &b.GuestName, &b.Email, &b.SpecialRequests, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
