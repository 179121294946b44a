package plan

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

type DurationKind string

const (
	DurationMonthly   DurationKind = "monthly"
	DurationYearly    DurationKind = "yearly"
	DurationFixedDays DurationKind = "fixed_days"
)

// Day counts are resolved at subscription time and snapshotted on the
// membership row, so changing this mapping never rewrites history.
const (
	monthlyDays = 30
	yearlyDays  = 365
)

var ErrUnknownDuration = errors.New("unknown plan duration")

type Plan struct {
	ID           int            `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	PriceCents   int64          `db:"price_cents" json:"price_cents"`
	DurationKind DurationKind   `db:"duration_kind" json:"duration_kind"`
	DurationDays *int           `db:"duration_days" json:"duration_days,omitempty"`
	Features     pq.StringArray `db:"features" json:"features"`
	Archived     bool           `db:"archived" json:"archived"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ResolveDurationDays maps the plan duration to a concrete day count.
func (p *Plan) ResolveDurationDays() (int, error) {
	switch p.DurationKind {
	case DurationMonthly:
		return monthlyDays, nil
	case DurationYearly:
		return yearlyDays, nil
	case DurationFixedDays:
		if p.DurationDays == nil || *p.DurationDays <= 0 {
			return 0, ErrUnknownDuration
		}
		return *p.DurationDays, nil
	default:
		return 0, ErrUnknownDuration
	}
}

type CreatePlanRequest struct {
	Name         string   `json:"name" validate:"required"`
	PriceCents   int64    `json:"price_cents" validate:"gte=0"`
	DurationKind string   `json:"duration_kind" validate:"required,oneof=monthly yearly fixed_days"`
	DurationDays *int     `json:"duration_days,omitempty" validate:"omitempty,gte=1"`
	Features     []string `json:"features" validate:"required"`
}

type UpdatePlanRequest struct {
	Name         *string   `json:"name,omitempty"`
	PriceCents   *int64    `json:"price_cents,omitempty"`
	DurationKind *string   `json:"duration_kind,omitempty"`
	DurationDays *int      `json:"duration_days,omitempty"`
	Features     *[]string `json:"features,omitempty"`
}
