package classes

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

func NewHandler(db *sqlx.DB, entitlement EntitlementChecker) *Handler {
	return &Handler{service: NewService(NewRepository(db), entitlement)}
}

// CreateSession godoc
// @Summary      Create a class session
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateSessionRequest true "Session data"
// @Success      201 {object} Session
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/classes [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSessionInvalid) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Errorf("Failed to create class session: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions godoc
// @Summary      List upcoming class sessions
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} SessionWithAvailability
// @Router       /classes [get]
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// BookSession godoc
// @Summary      Book a class session
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID path int true "Session ID"
// @Success      201 {object} Booking
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /classes/{sessionID}/book [post]
func (h *Handler) BookSession(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid session id"})
		return
	}

	booking, err := h.service.BookSession(c.Request.Context(), memberID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, membership.ErrNotEntitled):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrSessionInPast), errors.Is(err, ErrSessionFull), errors.Is(err, ErrAlreadyBooked):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			logger.Errorf("Failed to book session %d for member %d: %v", sessionID, memberID, err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to book session"})
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// CancelBooking godoc
// @Summary      Cancel a class booking
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid booking id"})
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), memberID, bookingID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrNotOwnBooking):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled successfully"})
}

// ListMyBookings godoc
// @Summary      List the caller's bookings
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Booking
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	bookings, err := h.service.GetMemberBookings(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
