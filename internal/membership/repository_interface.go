package membership

import "context"

type Repository interface {
	// Create inserts a membership guarded by the one-current-per-member
	// invariant; returns ErrCurrentMembershipExists when the guard trips.
	Create(ctx context.Context, m *Membership) (*Membership, error)
	GetByID(ctx context.Context, id int) (*Membership, error)
	// CurrentByMember returns the single ACTIVE or FROZEN membership.
	CurrentByMember(ctx context.Context, memberID int) (*Membership, error)
	HistoryByMember(ctx context.Context, memberID int) ([]Membership, error)
	// UpdateStatus is a compare-and-swap on status; returns
	// ErrStatusConflict when the row is no longer in the expected status.
	UpdateStatus(ctx context.Context, id int, from, to Status) error
	// UpdatePlanPricing swaps plan and pricing while the membership is
	// still current; returns ErrStatusConflict otherwise.
	UpdatePlanPricing(ctx context.Context, id int, planID int, discountCode *string, originalCents, discountCents, finalCents int64) error
}
