package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrInvalidPlan  = errors.New("invalid plan")
	ErrPlanInUse    = errors.New("plan has current memberships")
)

type Service interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	UpdatePlan(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error)
	ArchivePlan(ctx context.Context, id int) error
	GetPlan(ctx context.Context, id int) (*Plan, error)
	ListPlans(ctx context.Context, includeArchived bool) ([]Plan, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	p := &Plan{
		Name:         strings.TrimSpace(req.Name),
		PriceCents:   req.PriceCents,
		DurationKind: DurationKind(req.DurationKind),
		DurationDays: req.DurationDays,
		Features:     req.Features,
	}

	if err := validatePlan(p); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, p)
}

func (s *service) UpdatePlan(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if req.DurationKind != nil {
		p.DurationKind = DurationKind(*req.DurationKind)
	}
	if req.DurationDays != nil {
		p.DurationDays = req.DurationDays
	}
	if req.Features != nil {
		p.Features = *req.Features
	}

	if err := validatePlan(p); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, p)
}

// ArchivePlan soft-deletes a plan. Memberships keep their price snapshot, so
// history stays intact; only plans without current memberships can go.
func (s *service) ArchivePlan(ctx context.Context, id int) error {
	inUse, err := s.repo.HasCurrentMemberships(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrPlanInUse
	}

	if err := s.repo.Archive(ctx, id); err != nil {
		if errors.Is(err, ErrPlanNotFoundOrArchived) {
			return ErrPlanNotFound
		}
		return err
	}

	return nil
}

func (s *service) GetPlan(ctx context.Context, id int) (*Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ListPlans(ctx context.Context, includeArchived bool) ([]Plan, error) {
	return s.repo.List(ctx, includeArchived)
}

func validatePlan(p *Plan) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlan)
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPlan)
	}
	if len(p.Features) == 0 {
		return fmt.Errorf("%w: at least one feature is required", ErrInvalidPlan)
	}
	if _, err := p.ResolveDurationDays(); err != nil {
		return fmt.Errorf("%w: duration must be monthly, yearly or a positive day count", ErrInvalidPlan)
	}
	return nil
}
