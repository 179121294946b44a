package classes

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/metrics"
)

var (
	ErrSessionNotFound = errors.New("class session not found")
	ErrSessionInvalid  = errors.New("invalid class session")
	ErrSessionInPast   = errors.New("cannot book a session in the past")
	ErrSessionFull     = errors.New("class session is full")
	ErrAlreadyBooked   = errors.New("member already has a booking for this session")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotOwnBooking   = errors.New("can only cancel own bookings")
)

// EntitlementChecker is satisfied by the membership service.
type EntitlementChecker interface {
	AssertEntitled(ctx context.Context, memberID int, asOf time.Time) error
}

type Service interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)
	ListSessions(ctx context.Context, onlyFuture bool) ([]SessionWithAvailability, error)
	BookSession(ctx context.Context, memberID, sessionID int) (*Booking, error)
	CancelBooking(ctx context.Context, memberID, bookingID int) error
	GetMemberBookings(ctx context.Context, memberID int) ([]Booking, error)
}

type service struct {
	repo        Repository
	entitlement EntitlementChecker
}

func NewService(repo Repository, entitlement EntitlementChecker) Service {
	return &service{
		repo:        repo,
		entitlement: entitlement,
	}
}

func (s *service) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	if endTime.Before(startTime) || endTime.Equal(startTime) {
		return nil, ErrSessionInvalid
	}

	if req.Capacity <= 0 {
		return nil, ErrSessionInvalid
	}

	return s.repo.CreateSession(ctx, req.Name, startTime, endTime, req.Capacity)
}

func (s *service) ListSessions(ctx context.Context, onlyFuture bool) ([]SessionWithAvailability, error) {
	return s.repo.ListSessionsWithAvailability(ctx, onlyFuture)
}

func (s *service) BookSession(ctx context.Context, memberID, sessionID int) (*Booking, error) {
	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	if session.StartTime.Before(time.Now()) {
		return nil, ErrSessionInPast
	}

	if err := s.entitlement.AssertEntitled(ctx, memberID, session.StartTime); err != nil {
		return nil, err
	}

	bookedCount, err := s.repo.CountActiveBookingsForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if bookedCount >= session.Capacity {
		return nil, ErrSessionFull
	}

	hasBooking, err := s.repo.MemberHasBookingForSession(ctx, memberID, sessionID)
	if err != nil {
		return nil, err
	}

	if hasBooking {
		return nil, ErrAlreadyBooked
	}

	booking, err := s.repo.CreateBooking(ctx, memberID, sessionID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking("booked")

	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, memberID, bookingID int) error {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	if booking.MemberID != memberID {
		return ErrNotOwnBooking
	}

	if err := s.repo.CancelBooking(ctx, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFoundOrAlreadyCancelled) {
			return ErrBookingNotFound
		}
		return err
	}

	metrics.RecordBooking("cancelled")

	return nil
}

func (s *service) GetMemberBookings(ctx context.Context, memberID int) ([]Booking, error) {
	return s.repo.ListMemberBookings(ctx, memberID)
}
