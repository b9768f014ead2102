package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-api/internal/middleware"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/services"
	"github.com/lingora/lingora-api/pkg/logger"
	"go.uber.org/zap"
)

// ProfileHandler handles session-authenticated mentor profile endpoints
type ProfileHandler struct {
	service services.MentorServiceInterface
}

func NewProfileHandler(service services.MentorServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile handles GET /api/v1/mentor/profile
// Returns the authenticated mentor's full profile including secure fields
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	mentor, err := h.service.GetMentorByID(c.Request.Context(), session.UserID, models.FilterOptions{ShowHidden: true})
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mentor": mentor})
}

// UpdateProfile handles PUT /api/v1/mentor/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.UpdateProfileRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), session.UserID, &req); err != nil {
		respondAppError(c, err)
		return
	}

	logger.Info("Profile updated via session",
		zap.String("mentor_id", session.UserID))

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadAvatar handles POST /api/v1/mentor/profile/avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.UploadAvatarRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	avatarURL, err := h.service.UploadAvatar(c.Request.Context(), session.UserID, &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	logger.Info("Avatar uploaded via session",
		zap.String("mentor_id", session.UserID),
		zap.String("avatar_url", avatarURL))

	c.JSON(http.StatusOK, gin.H{"success": true, "avatarUrl": avatarURL})
}
