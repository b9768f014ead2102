package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-api/internal/middleware"
	"github.com/lingora/lingora-api/internal/scheduling"
	"github.com/lingora/lingora-api/internal/services"
)

// CalendarHandler serves timezone-localized calendar projections
type CalendarHandler struct {
	service services.CalendarServiceInterface
}

func NewCalendarHandler(service services.CalendarServiceInterface) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// GetMentorCalendar handles GET /api/v1/mentors/:id/calendar
// Projects the mentor's open slots and bookings into the requested display
// timezone. Anonymous viewers and mentees get the mentee rendering; the
// mentor sees their own calendar when authenticated.
func (h *CalendarHandler) GetMentorCalendar(c *gin.Context) {
	mentorID := c.Param("id")
	timezone := c.Query("timezone")
	days := parseDays(c.Query("days"))

	viewer := scheduling.ViewerMentee
	if session, err := middleware.GetSession(c); err == nil && session.IsMentor() && session.UserID == mentorID {
		viewer = scheduling.ViewerMentor
	}

	calendar, err := h.service.GetMentorCalendar(c.Request.Context(), mentorID, timezone, days, viewer)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, calendar)
}

// GetOwnCalendar handles GET /api/v1/me/calendar
// The authenticated user's own calendar: schedule plus bookings for mentors,
// booked lessons for mentees.
func (h *CalendarHandler) GetOwnCalendar(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	timezone := c.Query("timezone")

	if session.IsMentor() {
		calendar, err := h.service.GetMentorCalendar(c.Request.Context(), session.UserID, timezone, parseDays(c.Query("days")), scheduling.ViewerMentor)
		if err != nil {
			respondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, calendar)
		return
	}

	calendar, err := h.service.GetMenteeCalendar(c.Request.Context(), session.UserID, timezone)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, calendar)
}

// parseDays parses the horizon query parameter; the service clamps the value
func parseDays(raw string) int {
	if raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return days
}
