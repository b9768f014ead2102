package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-api/internal/middleware"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/services"
)

// AvailabilityHandler handles a mentor's weekly availability ranges
type AvailabilityHandler struct {
	service services.AvailabilityServiceInterface
}

func NewAvailabilityHandler(service services.AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// GetMentorAvailability handles GET /api/v1/mentors/:id/availability
// Public view of a mentor's declared weekly ranges
func (h *AvailabilityHandler) GetMentorAvailability(c *gin.Context) {
	slots, err := h.service.GetAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availability": slots})
}

// GetOwnAvailability handles GET /api/v1/mentor/availability
func (h *AvailabilityHandler) GetOwnAvailability(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), session.UserID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availability": slots})
}

// AddRange handles POST /api/v1/mentor/availability
func (h *AvailabilityHandler) AddRange(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.AvailabilityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	slot, err := h.service.AddRange(c.Request.Context(), session.UserID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// UpdateRange handles PUT /api/v1/mentor/availability/:slotId
// Rewrites a whole weekly range in place
func (h *AvailabilityHandler) UpdateRange(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.AvailabilityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	slot, err := h.service.UpdateRange(c.Request.Context(), session.UserID, c.Param("slotId"), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, slot)
}

// DeleteRange handles DELETE /api/v1/mentor/availability/:slotId
// Removes a whole weekly range
func (h *AvailabilityHandler) DeleteRange(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := h.service.DeleteRange(c.Request.Context(), session.UserID, c.Param("slotId")); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteOccurrence handles POST /api/v1/mentor/availability/delete-slot
// Removes a single generated slot by splitting its range around it
func (h *AvailabilityHandler) DeleteOccurrence(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.DeleteSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	if err := h.service.DeleteSlotOccurrence(c.Request.Context(), session.UserID, &req); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
