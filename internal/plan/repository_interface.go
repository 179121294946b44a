package plan

import "context"

type Repository interface {
	Create(ctx context.Context, p *Plan) (*Plan, error)
	Update(ctx context.Context, p *Plan) (*Plan, error)
	Archive(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*Plan, error)
	List(ctx context.Context, includeArchived bool) ([]Plan, error)
	HasCurrentMemberships(ctx context.Context, id int) (bool, error)
}
