package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymdesk/internal/metrics"
)

var (
	ErrInvalidCheckInType = errors.New("invalid check-in type")
	ErrSessionRequired    = errors.New("session_id is required for class attendance")
	ErrNoConfirmedBooking = errors.New("no confirmed booking for this class")
	ErrRecordNotFound     = errors.New("attendance record not found")
)

// EntitlementChecker is satisfied by the membership service.
type EntitlementChecker interface {
	AssertEntitled(ctx context.Context, memberID int, asOf time.Time) error
}

// BookingChecker is satisfied by the classes repository.
type BookingChecker interface {
	HasConfirmedBooking(ctx context.Context, memberID, sessionID int) (bool, error)
}

type Service interface {
	CheckIn(ctx context.Context, memberID int, checkInType CheckInType, sessionID *int) (*Record, error)
	CheckOut(ctx context.Context, recordID int) (*Record, error)
	GetMemberRecords(ctx context.Context, memberID int) ([]Record, error)
}

type service struct {
	repo        Repository
	entitlement EntitlementChecker
	bookings    BookingChecker
}

func NewService(repo Repository, entitlement EntitlementChecker, bookings BookingChecker) Service {
	return &service{
		repo:        repo,
		entitlement: entitlement,
		bookings:    bookings,
	}
}

// CheckIn gates the visit on an active membership, then writes the record.
// Class attendance additionally requires a confirmed booking.
func (s *service) CheckIn(ctx context.Context, memberID int, checkInType CheckInType, sessionID *int) (*Record, error) {
	if checkInType != TypeGymVisit && checkInType != TypeClassAttendance {
		return nil, ErrInvalidCheckInType
	}

	if err := s.entitlement.AssertEntitled(ctx, memberID, time.Now()); err != nil {
		return nil, err
	}

	if checkInType == TypeClassAttendance {
		if sessionID == nil {
			return nil, ErrSessionRequired
		}

		hasBooking, err := s.bookings.HasConfirmedBooking(ctx, memberID, *sessionID)
		if err != nil {
			return nil, err
		}
		if !hasBooking {
			return nil, ErrNoConfirmedBooking
		}
	} else {
		sessionID = nil
	}

	record, err := s.repo.Create(ctx, memberID, checkInType, sessionID)
	if err != nil {
		return nil, err
	}

	metrics.RecordCheckIn(string(checkInType))

	return record, nil
}

func (s *service) CheckOut(ctx context.Context, recordID int) (*Record, error) {
	record, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if record.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	if err := s.repo.SetCheckOut(ctx, record.ID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, record.ID)
}

func (s *service) GetMemberRecords(ctx context.Context, memberID int) ([]Record, error) {
	return s.repo.ListByMember(ctx, memberID)
}
