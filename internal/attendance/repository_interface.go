package attendance

import "context"

type Repository interface {
	Create(ctx context.Context, memberID int, checkInType CheckInType, sessionID *int) (*Record, error)
	GetByID(ctx context.Context, id int) (*Record, error)
	// SetCheckOut sets the check-out time once; returns
	// ErrAlreadyCheckedOut if the record already has one.
	SetCheckOut(ctx context.Context, id int) error
	ListByMember(ctx context.Context, memberID int) ([]Record, error)
}
