package plan

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{service: NewService(NewRepository(db))}
}

// ListPlans godoc
// @Summary      List membership plans
// @Description  Returns all non-archived plans ordered by price ascending.
// @Tags         plans
// @Produce      json
// @Success      200 {array} Plan
// @Router       /plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// ListAllPlans godoc
// @Summary      List all plans including archived
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Plan
// @Router       /admin/plans [get]
func (h *Handler) ListAllPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// CreatePlan godoc
// @Summary      Create a membership plan
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreatePlanRequest true "Plan definition"
// @Success      201 {object} Plan
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	created, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidPlan) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Errorf("Failed to create plan: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create plan"})
		return
	}

	logger.Infof("Plan created: %s (%d cents)", created.Name, created.PriceCents)
	c.JSON(http.StatusCreated, created)
}

// UpdatePlan godoc
// @Summary      Update a membership plan
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        planID  path int               true "Plan ID"
// @Param        request body UpdatePlanRequest true "Fields to update"
// @Success      200 {object} Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/plans/{planID} [patch]
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid plan id"})
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := h.service.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "plan not found"})
		case errors.Is(err, ErrInvalidPlan):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update plan"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ArchivePlan godoc
// @Summary      Archive a membership plan
// @Description  Soft delete; historical memberships keep their price snapshot.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        planID path int true "Plan ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/plans/{planID} [delete]
func (h *Handler) ArchivePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid plan id"})
		return
	}

	if err := h.service.ArchivePlan(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "plan not found"})
		case errors.Is(err, ErrPlanInUse):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "plan has current memberships"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to archive plan"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Plan archived"})
}
