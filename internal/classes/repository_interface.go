package classes

import (
	"context"
	"time"
)

type Repository interface {
	CreateSession(ctx context.Context, name string, startTime, endTime time.Time, capacity int) (*Session, error)
	GetSessionByID(ctx context.Context, id int) (*Session, error)
	ListSessionsWithAvailability(ctx context.Context, onlyFuture bool) ([]SessionWithAvailability, error)

	CreateBooking(ctx context.Context, memberID, sessionID int) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	CancelBooking(ctx context.Context, id int) error
	CountActiveBookingsForSession(ctx context.Context, sessionID int) (int, error)
	MemberHasBookingForSession(ctx context.Context, memberID, sessionID int) (bool, error)
	HasConfirmedBooking(ctx context.Context, memberID, sessionID int) (bool, error)
	ListMemberBookings(ctx context.Context, memberID int) ([]Booking, error)
}
