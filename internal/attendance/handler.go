package attendance

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/auth"
	"gymdesk/internal/logger"
	"gymdesk/internal/membership"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, entitlement EntitlementChecker, bookings BookingChecker) *Handler {
	return &Handler{service: NewService(NewRepository(db), entitlement, bookings)}
}

// CheckIn godoc
// @Summary      Check in to the gym or a class
// @Description  Requires an active membership; class check-ins also need a confirmed booking.
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CheckInRequest true "Check-in data"
// @Success      201 {object} Record
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /checkins [post]
func (h *Handler) CheckIn(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	record, err := h.service.CheckIn(c.Request.Context(), memberID, CheckInType(req.Type), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrNotEntitled):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrInvalidCheckInType),
			errors.Is(err, ErrSessionRequired),
			errors.Is(err, ErrNoConfirmedBooking):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			logger.Errorf("Check-in failed for member %d: %v", memberID, err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to check in"})
		}
		return
	}

	c.JSON(http.StatusCreated, record)
}

// CheckOut godoc
// @Summary      Check out of an attendance record
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        checkinID path int true "Attendance record ID"
// @Success      200 {object} Record
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /checkins/{checkinID}/checkout [post]
func (h *Handler) CheckOut(c *gin.Context) {
	recordID, err := strconv.Atoi(c.Param("checkinID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid check-in id"})
		return
	}

	record, err := h.service.CheckOut(c.Request.Context(), recordID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrAlreadyCheckedOut):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to check out"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListMyAttendance godoc
// @Summary      List the caller's attendance records
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Record
// @Router       /checkins [get]
func (h *Handler) ListMyAttendance(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	records, err := h.service.GetMemberRecords(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load attendance"})
		return
	}

	c.JSON(http.StatusOK, records)
}
