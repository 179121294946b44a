package membership

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusFrozen    Status = "frozen"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// IsCurrent reports whether the status counts toward the one-current-
// membership-per-member invariant.
func (s Status) IsCurrent() bool {
	return s == StatusActive || s == StatusFrozen
}

// IsTerminal reports whether the status can only be left via a renewal.
func (s Status) IsTerminal() bool {
	return s == StatusExpired || s == StatusCancelled
}

// Membership is a member's time-bounded entitlement to a plan. Price fields
// are snapshotted at assignment so later plan edits never rewrite history.
type Membership struct {
	ID                 int       `db:"id" json:"id"`
	MemberID           int       `db:"member_id" json:"member_id"`
	PlanID             int       `db:"plan_id" json:"plan_id"`
	Status             Status    `db:"status" json:"status"`
	StartDate          time.Time `db:"start_date" json:"start_date"`
	EndDate            time.Time `db:"end_date" json:"end_date"`
	DurationDays       int       `db:"duration_days" json:"duration_days"`
	OriginalPriceCents int64     `db:"original_price_cents" json:"original_price_cents"`
	DiscountCode       *string   `db:"discount_code" json:"discount_code,omitempty"`
	DiscountCents      int64     `db:"discount_cents" json:"discount_cents"`
	FinalPriceCents    int64     `db:"final_price_cents" json:"final_price_cents"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type AssignRequest struct {
	MemberID     int    `json:"member_id" binding:"required"`
	PlanID       int    `json:"plan_id" binding:"required"`
	StartDate    string `json:"start_date,omitempty"`
	DiscountCode string `json:"discount_code,omitempty"`
}

type RenewRequest struct {
	PlanID       int    `json:"plan_id" binding:"required"`
	DiscountCode string `json:"discount_code,omitempty"`
}

type ChangePlanRequest struct {
	PlanID int `json:"plan_id" binding:"required"`
}
