package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/discount"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"
	"gymdesk/internal/plan"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrPlanArchived       = errors.New("plan is archived")
	ErrAlreadySubscribed  = errors.New("member already has a current membership")
	ErrStillCurrent       = errors.New("current membership must expire or be cancelled first")
	ErrNotCurrent         = errors.New("membership is no longer current")
	ErrNotActive          = errors.New("membership is not active")
	ErrNotFrozen          = errors.New("membership is not frozen")
	ErrAlreadyTerminal    = errors.New("membership already expired or cancelled")
	ErrNotEntitled        = errors.New("member is not entitled")
)

type DiscountResolver interface {
	Resolve(ctx context.Context, priceCents int64, code string) (discount.Resolution, error)
}

// Notifier delivers fire-and-forget lifecycle notices. Failures never roll
// back a transition. The event is one of: subscribed, renewed, plan_changed,
// frozen, unfrozen, expired, cancelled.
type Notifier interface {
	SendMembershipNotice(ctx context.Context, email, name, event, details string) error
}

type Service interface {
	Assign(ctx context.Context, memberID, planID int, startDate time.Time, discountCode string) (*Membership, error)
	Renew(ctx context.Context, membershipID, planID int, discountCode string) (*Membership, error)
	ChangePlan(ctx context.Context, membershipID, newPlanID int) (*Membership, error)
	Freeze(ctx context.Context, membershipID int) (*Membership, error)
	Unfreeze(ctx context.Context, membershipID int) (*Membership, error)
	MarkExpired(ctx context.Context, membershipID int) (*Membership, error)
	Cancel(ctx context.Context, membershipID int) (*Membership, error)
	Current(ctx context.Context, memberID int) (*Membership, error)
	History(ctx context.Context, memberID int) ([]Membership, error)
	AssertEntitled(ctx context.Context, memberID int, asOf time.Time) error
}

type service struct {
	repo       Repository
	planRepo   plan.Repository
	resolver   DiscountResolver
	memberRepo member.Repository
	notifier   Notifier
}

func NewService(repo Repository, planRepo plan.Repository, resolver DiscountResolver, memberRepo member.Repository, notifier Notifier) Service {
	return &service{
		repo:       repo,
		planRepo:   planRepo,
		resolver:   resolver,
		memberRepo: memberRepo,
		notifier:   notifier,
	}
}

func (s *service) Assign(ctx context.Context, memberID, planID int, startDate time.Time, discountCode string) (*Membership, error) {
	p, days, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, p.PriceCents, discountCode)
	if err != nil {
		return nil, err
	}

	m := buildMembership(memberID, p, days, startDate, res)

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		if errors.Is(err, ErrCurrentMembershipExists) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	metrics.RecordMembershipEvent("subscribed")
	s.notify(ctx, created.MemberID, "subscribed",
		fmt.Sprintf("Your %s membership is active until %s.", p.Name, created.EndDate.Format("Jan 2, 2006")))

	return created, nil
}

// Renew chains a fresh membership after a lapsed one. The old row stays
// untouched as history.
func (s *service) Renew(ctx context.Context, membershipID, planID int, discountCode string) (*Membership, error) {
	old, err := s.getByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	if old.Status.IsCurrent() {
		return nil, ErrStillCurrent
	}

	p, days, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, p.PriceCents, discountCode)
	if err != nil {
		return nil, err
	}

	m := buildMembership(old.MemberID, p, days, time.Now(), res)

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		if errors.Is(err, ErrCurrentMembershipExists) {
			return nil, ErrStillCurrent
		}
		return nil, err
	}

	metrics.RecordMembershipEvent("renewed")
	s.notify(ctx, created.MemberID, "renewed",
		fmt.Sprintf("Your %s membership was renewed until %s.", p.Name, created.EndDate.Format("Jan 2, 2006")))

	return created, nil
}

// ChangePlan swaps the plan mid-cycle and reprices the membership against
// the new plan. Percent codes are re-resolved against the new price; a code
// that no longer resolves keeps the locked-in discount amount, clamped so
// the final price stays non-negative. Start and end dates do not move.
func (s *service) ChangePlan(ctx context.Context, membershipID, newPlanID int) (*Membership, error) {
	m, err := s.getByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	if !m.Status.IsCurrent() {
		return nil, ErrNotCurrent
	}

	p, _, err := s.loadPlan(ctx, newPlanID)
	if err != nil {
		return nil, err
	}

	code := ""
	if m.DiscountCode != nil {
		code = *m.DiscountCode
	}

	discountCents := int64(0)
	if code != "" {
		res, err := s.resolver.Resolve(ctx, p.PriceCents, code)
		if err != nil {
			if !errors.Is(err, discount.ErrInvalidCode) {
				return nil, err
			}
			discountCents = discount.Clamp(p.PriceCents, m.DiscountCents)
		} else {
			discountCents = res.DiscountCents
		}
	}

	finalCents := p.PriceCents - discountCents

	if err := s.repo.UpdatePlanPricing(ctx, m.ID, p.ID, m.DiscountCode, p.PriceCents, discountCents, finalCents); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrNotCurrent
		}
		return nil, err
	}

	metrics.RecordMembershipEvent("plan_changed")
	s.notify(ctx, m.MemberID, "plan_changed",
		fmt.Sprintf("Your membership is now on the %s plan.", p.Name))

	return s.getByID(ctx, m.ID)
}

func (s *service) Freeze(ctx context.Context, membershipID int) (*Membership, error) {
	m, err := s.getByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	if m.Status != StatusActive {
		return nil, ErrNotActive
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, StatusActive, StatusFrozen); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrNotActive
		}
		return nil, err
	}

	metrics.RecordMembershipEvent("frozen")
	s.notify(ctx, m.MemberID, "frozen", "Your membership is suspended until you unfreeze it.")

	return s.getByID(ctx, m.ID)
}

func (s *service) Unfreeze(ctx context.Context, membershipID int) (*Membership, error) {
	m, err := s.getByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	if m.Status != StatusFrozen {
		return nil, ErrNotFrozen
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, StatusFrozen, StatusActive); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrNotFrozen
		}
		return nil, err
	}

	metrics.RecordMembershipEvent("unfrozen")
	s.notify(ctx, m.MemberID, "unfrozen", "Your membership is active again.")

	return s.getByID(ctx, m.ID)
}

// MarkExpired is the administrative override: it expires a current
// membership regardless of its end date.
func (s *service) MarkExpired(ctx context.Context, membershipID int) (*Membership, error) {
	return s.terminate(ctx, membershipID, StatusExpired, "expired")
}

func (s *service) Cancel(ctx context.Context, membershipID int) (*Membership, error) {
	return s.terminate(ctx, membershipID, StatusCancelled, "cancelled")
}

func (s *service) terminate(ctx context.Context, membershipID int, to Status, event string) (*Membership, error) {
	m, err := s.getByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	if m.Status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, m.Status, to); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrAlreadyTerminal
		}
		return nil, err
	}

	metrics.RecordMembershipEvent(event)
	s.notify(ctx, m.MemberID, event, "Your membership has been marked "+event+".")

	return s.getByID(ctx, m.ID)
}

func (s *service) Current(ctx context.Context, memberID int) (*Membership, error) {
	m, err := s.repo.CurrentByMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *service) History(ctx context.Context, memberID int) ([]Membership, error) {
	return s.repo.HistoryByMember(ctx, memberID)
}

// AssertEntitled gates check-ins: the member needs an ACTIVE membership
// whose date range covers asOf. Frozen means suspended access.
func (s *service) AssertEntitled(ctx context.Context, memberID int, asOf time.Time) error {
	m, err := s.repo.CurrentByMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: no current membership", ErrNotEntitled)
		}
		return err
	}

	if m.Status != StatusActive {
		return fmt.Errorf("%w: membership is frozen", ErrNotEntitled)
	}

	if asOf.Before(m.StartDate) || asOf.After(m.EndDate) {
		return fmt.Errorf("%w: outside membership period", ErrNotEntitled)
	}

	return nil
}

func (s *service) getByID(ctx context.Context, id int) (*Membership, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *service) loadPlan(ctx context.Context, planID int) (*plan.Plan, int, error) {
	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, plan.ErrPlanNotFound
		}
		return nil, 0, err
	}

	if p.Archived {
		return nil, 0, ErrPlanArchived
	}

	days, err := p.ResolveDurationDays()
	if err != nil {
		return nil, 0, err
	}

	return p, days, nil
}

func buildMembership(memberID int, p *plan.Plan, days int, startDate time.Time, res discount.Resolution) *Membership {
	var code *string
	if res.Code != "" {
		code = &res.Code
	}

	return &Membership{
		MemberID:           memberID,
		PlanID:             p.ID,
		Status:             StatusActive,
		StartDate:          startDate,
		EndDate:            startDate.AddDate(0, 0, days),
		DurationDays:       days,
		OriginalPriceCents: p.PriceCents,
		DiscountCode:       code,
		DiscountCents:      res.DiscountCents,
		FinalPriceCents:    p.PriceCents - res.DiscountCents,
	}
}

func (s *service) notify(ctx context.Context, memberID int, event, details string) {
	if s.notifier == nil {
		return
	}

	mem, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil || mem == nil {
		return
	}

	if err := s.notifier.SendMembershipNotice(ctx, mem.Email, mem.Name, event, details); err != nil {
		logger.Errorf("Failed to queue notification for member %d: %v", memberID, err)
	}
}
