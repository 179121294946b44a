package reporting

import (
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const (
	defaultRevenueMonths  = 12
	defaultAttendanceDays = 30
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// Revenue godoc
// @Summary      Monthly revenue report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        months query int false "Number of months back (default 12)"
// @Success      200 {array} MonthlyRevenue
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/reports/revenue [get]
func (h *Handler) Revenue(c *gin.Context) {
	months := queryInt(c, "months", defaultRevenueMonths)

	rows, err := h.repo.RevenueByMonth(c.Request.Context(), months)
	if err != nil {
		logger.Errorf("Revenue report failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ActiveMemberships godoc
// @Summary      Active and frozen memberships per plan
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} PlanMembershipCount
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/reports/memberships [get]
func (h *Handler) ActiveMemberships(c *gin.Context) {
	rows, err := h.repo.ActiveMembershipsByPlan(c.Request.Context())
	if err != nil {
		logger.Errorf("Memberships report failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// Attendance godoc
// @Summary      Daily attendance report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        days query int false "Number of days back (default 30)"
// @Success      200 {array} DailyAttendance
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/reports/attendance [get]
func (h *Handler) Attendance(c *gin.Context) {
	days := queryInt(c, "days", defaultAttendanceDays)

	rows, err := h.repo.AttendanceByDay(c.Request.Context(), days)
	if err != nil {
		logger.Errorf("Attendance report failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// Occupancy godoc
// @Summary      Class session occupancy report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} SessionOccupancy
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/reports/occupancy [get]
func (h *Handler) Occupancy(c *gin.Context) {
	rows, err := h.repo.ClassOccupancy(c.Request.Context())
	if err != nil {
		logger.Errorf("Occupancy report failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}

	return v
}
