package discount

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Finder interface {
	FindByCode(ctx context.Context, code string) (*Code, error)
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*Code, error) {
	c := &Code{}
	err := r.db.GetContext(ctx, c, `
		SELECT id, code, kind, value, valid_from, valid_until, active, created_at
		FROM discount_codes
		WHERE code = $1
	`, code)
	if err != nil {
		return nil, err
	}

	return c, nil
}
