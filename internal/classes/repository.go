package classes

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrBookingNotFoundOrAlreadyCancelled = errors.New("booking not found or already cancelled")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSession(ctx context.Context, name string, startTime, endTime time.Time, capacity int) (*Session, error) {
	query := `
		INSERT INTO class_sessions (name, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, start_time, end_time, capacity, created_at
	`

	var session Session
	err := r.db.GetContext(ctx, &session, query, name, startTime, endTime, capacity)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *repository) GetSessionByID(ctx context.Context, id int) (*Session, error) {
	query := `
		SELECT id, name, start_time, end_time, capacity, created_at
		FROM class_sessions
		WHERE id = $1
	`

	var session Session
	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *repository) ListSessionsWithAvailability(ctx context.Context, onlyFuture bool) ([]SessionWithAvailability, error) {
	query := `
		SELECT
			cs.id,
			cs.name,
			cs.start_time,
			cs.end_time,
			cs.capacity,
			cs.created_at,
			COUNT(b.id) FILTER (WHERE b.status = 'booked') AS booked_count
		FROM class_sessions cs
		LEFT JOIN bookings b ON b.session_id = cs.id
		WHERE (NOT $1 OR cs.start_time > NOW())
		GROUP BY cs.id
		ORDER BY cs.start_time ASC
	`

	var sessions []SessionWithAvailability
	err := r.db.SelectContext(ctx, &sessions, query, onlyFuture)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		sessions[i].Available = sessions[i].Capacity - sessions[i].BookedCount
		sessions[i].IsFull = sessions[i].Available <= 0
	}

	return sessions, nil
}

func (r *repository) CreateBooking(ctx context.Context, memberID, sessionID int) (*Booking, error) {
	query := `
		INSERT INTO bookings (member_id, session_id, status)
		VALUES ($1, $2, 'booked')
		RETURNING id, member_id, session_id, status, created_at
	`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, memberID, sessionID)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, member_id, session_id, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) CancelBooking(ctx context.Context, id int) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'booked'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBookingNotFoundOrAlreadyCancelled
	}

	return nil
}

func (r *repository) CountActiveBookingsForSession(ctx context.Context, sessionID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE session_id = $1 AND status = 'booked'
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, sessionID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) MemberHasBookingForSession(ctx context.Context, memberID, sessionID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE member_id = $1 AND session_id = $2 AND status = 'booked'
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, memberID, sessionID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// HasConfirmedBooking backs the class-attendance entitlement check.
func (r *repository) HasConfirmedBooking(ctx context.Context, memberID, sessionID int) (bool, error) {
	return r.MemberHasBookingForSession(ctx, memberID, sessionID)
}

func (r *repository) ListMemberBookings(ctx context.Context, memberID int) ([]Booking, error) {
	query := `
		SELECT id, member_id, session_id, status, created_at
		FROM bookings
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, memberID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
