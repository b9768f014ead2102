package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-api/internal/middleware"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/services"
)

// BookingHandler handles the booking lifecycle endpoints
type BookingHandler struct {
	service services.BookingServiceInterface
}

func NewBookingHandler(service services.BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// CreateBooking handles POST /api/v1/bookings
// Books a lesson for the authenticated mentee
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), session.UserID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking handles GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), c.Param("id"), session)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListBookings handles GET /api/v1/bookings
// Returns the authenticated user's bookings; ?upcoming=true narrows the list
// to lessons that have not ended yet
func (h *BookingHandler) ListBookings(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	upcomingOnly := c.Query("upcoming") == "true"

	var bookings []*models.Booking
	if session.IsMentor() {
		bookings, err = h.service.ListForMentor(c.Request.Context(), session.UserID, upcomingOnly)
	} else {
		bookings, err = h.service.ListForMentee(c.Request.Context(), session.UserID, upcomingOnly)
	}
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.UpdateBookingStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	booking, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, session)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
