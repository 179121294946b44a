package membership

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrCurrentMembershipExists = errors.New("member already has a current membership")
	ErrStatusConflict          = errors.New("membership not in expected status")
)

const membershipColumns = `id, member_id, plan_id, status, start_date, end_date, duration_days,
	original_price_cents, discount_code, discount_cents, final_price_cents, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create relies on a conditional insert (plus the partial unique index in the
// schema) so two concurrent assigns cannot both produce a current membership.
// Two inserts racing past the NOT EXISTS check surface as a unique violation
// on the partial index, which maps to the same sentinel.
func (r *repository) Create(ctx context.Context, m *Membership) (*Membership, error) {
	query := `
		INSERT INTO memberships (member_id, plan_id, status, start_date, end_date, duration_days,
			original_price_cents, discount_code, discount_cents, final_price_cents)
		SELECT $1, $2, 'active', $3, $4, $5, $6, $7, $8, $9
		WHERE NOT EXISTS (
			SELECT 1 FROM memberships
			WHERE member_id = $1 AND status IN ('active', 'frozen')
		)
		RETURNING ` + membershipColumns

	var created Membership
	err := r.db.GetContext(ctx, &created, query,
		m.MemberID, m.PlanID, m.StartDate, m.EndDate, m.DurationDays,
		m.OriginalPriceCents, m.DiscountCode, m.DiscountCents, m.FinalPriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCurrentMembershipExists
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrCurrentMembershipExists
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) CurrentByMember(ctx context.Context, memberID int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE member_id = $1 AND status IN ('active', 'frozen')
		LIMIT 1
	`, memberID)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) HistoryByMember(ctx context.Context, memberID int) ([]Membership, error) {
	var memberships []Membership
	err := r.db.SelectContext(ctx, &memberships, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE member_id = $1
		ORDER BY start_date DESC, id DESC
	`, memberID)
	if err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to Status) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

func (r *repository) UpdatePlanPricing(ctx context.Context, id int, planID int, discountCode *string, originalCents, discountCents, finalCents int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET plan_id = $1, discount_code = $2, original_price_cents = $3,
		    discount_cents = $4, final_price_cents = $5, updated_at = NOW()
		WHERE id = $6 AND status IN ('active', 'frozen')
	`, planID, discountCode, originalCents, discountCents, finalCents, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}
