package plan

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPlanNotFoundOrArchived = errors.New("plan not found or already archived")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Plan) (*Plan, error) {
	query := `
		INSERT INTO plans (name, price_cents, duration_kind, duration_days, features)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, price_cents, duration_kind, duration_days, features, archived, created_at, updated_at
	`

	var created Plan
	err := r.db.GetContext(ctx, &created, query,
		p.Name, p.PriceCents, p.DurationKind, p.DurationDays, p.Features)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) Update(ctx context.Context, p *Plan) (*Plan, error) {
	query := `
		UPDATE plans
		SET name = $1, price_cents = $2, duration_kind = $3, duration_days = $4, features = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, name, price_cents, duration_kind, duration_days, features, archived, created_at, updated_at
	`

	var updated Plan
	err := r.db.GetContext(ctx, &updated, query,
		p.Name, p.PriceCents, p.DurationKind, p.DurationDays, p.Features, p.ID)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *repository) Archive(ctx context.Context, id int) error {
	query := `
		UPDATE plans
		SET archived = TRUE, updated_at = NOW()
		WHERE id = $1 AND archived = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPlanNotFoundOrArchived
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	query := `
		SELECT id, name, price_cents, duration_kind, duration_days, features, archived, created_at, updated_at
		FROM plans
		WHERE id = $1
	`

	var p Plan
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) List(ctx context.Context, includeArchived bool) ([]Plan, error) {
	query := `
		SELECT id, name, price_cents, duration_kind, duration_days, features, archived, created_at, updated_at
		FROM plans
		WHERE ($1 OR archived = FALSE)
		ORDER BY price_cents ASC
	`

	var plans []Plan
	err := r.db.SelectContext(ctx, &plans, query, includeArchived)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *repository) HasCurrentMemberships(ctx context.Context, id int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM memberships
			WHERE plan_id = $1 AND status IN ('active', 'frozen')
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, err
	}

	return exists, nil
}
