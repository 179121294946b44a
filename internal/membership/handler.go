package membership

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/api"
	"gymdesk/internal/auth"
	"gymdesk/internal/discount"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/plan"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, notifier Notifier) *Handler {
	return &Handler{
		service: NewService(
			NewRepository(db),
			plan.NewRepository(db),
			discount.NewResolver(discount.NewRepository(db)),
			member.NewRepository(db),
			notifier,
		),
	}
}

// Service exposes the membership service so collaborators can gate
// operations on entitlement.
func (h *Handler) Service() Service {
	return h.service
}

// Subscribe godoc
// @Summary      Assign a plan to a member
// @Description  Creates an active membership; fails if the member already has a current one.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body AssignRequest true "Assignment data"
// @Success      201 {object} Membership
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/memberships/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	startDate := time.Now()
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "start_date must be YYYY-MM-DD"})
			return
		}
		startDate = parsed
	}

	created, err := h.service.Assign(c.Request.Context(), req.MemberID, req.PlanID, startDate, req.DiscountCode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	logger.Infof("Membership assigned: member=%d plan=%d", created.MemberID, created.PlanID)
	c.JSON(http.StatusCreated, created)
}

// Renew godoc
// @Summary      Renew a lapsed membership
// @Description  Creates a new membership chained after an expired or cancelled one.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        membershipID path int          true "Membership ID"
// @Param        request      body RenewRequest true "Renewal data"
// @Success      201 {object} Membership
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/memberships/{membershipID}/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	id, ok := h.membershipID(c)
	if !ok {
		return
	}

	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.Renew(c.Request.Context(), id, req.PlanID, req.DiscountCode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	logger.Infof("Membership renewed: member=%d plan=%d", created.MemberID, created.PlanID)
	c.JSON(http.StatusCreated, created)
}

// ChangePlan godoc
// @Summary      Change plan mid-cycle
// @Description  Reprices a current membership against a new plan; dates do not move.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        membershipID path int               true "Membership ID"
// @Param        request      body ChangePlanRequest true "New plan"
// @Success      200 {object} Membership
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/memberships/{membershipID}/change-plan [patch]
func (h *Handler) ChangePlan(c *gin.Context) {
	id, ok := h.membershipID(c)
	if !ok {
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := h.service.ChangePlan(c.Request.Context(), id, req.PlanID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Freeze godoc
// @Summary      Freeze a membership
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        membershipID path int true "Membership ID"
// @Success      200 {object} Membership
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/memberships/{membershipID}/freeze [post]
func (h *Handler) Freeze(c *gin.Context) {
	h.transition(c, h.service.Freeze)
}

// Unfreeze godoc
// @Summary      Unfreeze a membership
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        membershipID path int true "Membership ID"
// @Success      200 {object} Membership
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/memberships/{membershipID}/unfreeze [post]
func (h *Handler) Unfreeze(c *gin.Context) {
	h.transition(c, h.service.Unfreeze)
}

// MarkExpired godoc
// @Summary      Force-expire a membership
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        membershipID path int true "Membership ID"
// @Success      200 {object} Membership
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/memberships/{membershipID}/expire [post]
func (h *Handler) MarkExpired(c *gin.Context) {
	h.transition(c, h.service.MarkExpired)
}

// Cancel godoc
// @Summary      Cancel a membership
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        membershipID path int true "Membership ID"
// @Success      200 {object} Membership
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/memberships/{membershipID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

// GetCurrent godoc
// @Summary      Get the caller's current membership
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} Membership
// @Failure      404 {object} api.ErrorResponse
// @Router       /memberships/current [get]
func (h *Handler) GetCurrent(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	m, err := h.service.Current(c.Request.Context(), memberID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// GetHistory godoc
// @Summary      List the caller's membership history
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Membership
// @Router       /memberships/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	history, err := h.service.History(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load membership history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, id int) (*Membership, error)) {
	id, ok := h.membershipID(c)
	if !ok {
		return
	}

	updated, err := op(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) membershipID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("membershipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid membership id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMembershipNotFound), errors.Is(err, plan.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrAlreadySubscribed),
		errors.Is(err, ErrStillCurrent),
		errors.Is(err, ErrNotCurrent),
		errors.Is(err, ErrNotActive),
		errors.Is(err, ErrNotFrozen),
		errors.Is(err, ErrAlreadyTerminal):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, discount.ErrInvalidCode),
		errors.Is(err, ErrPlanArchived),
		errors.Is(err, plan.ErrUnknownDuration):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotEntitled):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Errorf("Membership operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}
