package discount

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"
)

var ErrInvalidCode = errors.New("invalid discount code")

// Resolver computes the discount for a plan price from an optional code.
type Resolver struct {
	repo Finder
}

func NewResolver(repo Finder) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve looks up the code and applies it to priceCents. An empty code
// resolves to a zero discount; an unknown, inactive or expired code is an
// error rather than a silent no-op.
func (r *Resolver) Resolve(ctx context.Context, priceCents int64, code string) (Resolution, error) {
	if code == "" {
		return Resolution{}, nil
	}

	c, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resolution{}, ErrInvalidCode
		}
		return Resolution{}, err
	}

	return Apply(priceCents, c, time.Now())
}

// Apply is the pure part of discount resolution: validity window check plus
// the fixed/percent computation, clamped so the final price never drops
// below zero. Nil window bounds are open.
func Apply(priceCents int64, c *Code, at time.Time) (Resolution, error) {
	if !c.Active {
		return Resolution{}, ErrInvalidCode
	}
	if c.ValidFrom != nil && at.Before(*c.ValidFrom) {
		return Resolution{}, ErrInvalidCode
	}
	if c.ValidUntil != nil && at.After(*c.ValidUntil) {
		return Resolution{}, ErrInvalidCode
	}

	var discount int64
	switch c.Kind {
	case KindFixed:
		discount = int64(math.Round(c.Value))
	case KindPercent:
		if c.Value < 0 || c.Value > 100 {
			return Resolution{}, ErrInvalidCode
		}
		discount = int64(math.Round(float64(priceCents) * c.Value / 100))
	default:
		return Resolution{}, ErrInvalidCode
	}

	discount = Clamp(priceCents, discount)

	return Resolution{Code: c.Code, Kind: c.Kind, DiscountCents: discount}, nil
}

// Clamp bounds a discount to [0, priceCents].
func Clamp(priceCents, discountCents int64) int64 {
	if discountCents < 0 {
		return 0
	}
	if discountCents > priceCents {
		return priceCents
	}
	return discountCents
}
