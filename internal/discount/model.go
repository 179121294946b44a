package discount

import "time"

type Kind string

const (
	KindFixed   Kind = "fixed"
	KindPercent Kind = "percent"
)

// Code is a discount definition. Value is cents for fixed codes and a
// percentage (0-100) for percent codes. A nil validity bound is open: the
// code applies at any time on that side.
type Code struct {
	ID         int        `db:"id" json:"id"`
	Code       string     `db:"code" json:"code"`
	Kind       Kind       `db:"kind" json:"kind"`
	Value      float64    `db:"value" json:"value"`
	ValidFrom  *time.Time `db:"valid_from" json:"valid_from,omitempty"`
	ValidUntil *time.Time `db:"valid_until" json:"valid_until,omitempty"`
	Active     bool       `db:"active" json:"active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Resolution is the outcome of applying a code to a plan price.
type Resolution struct {
	Code          string `json:"code,omitempty"`
	Kind          Kind   `json:"kind,omitempty"`
	DiscountCents int64  `json:"discount_cents"`
}
