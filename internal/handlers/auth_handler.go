package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-api/internal/middleware"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/services"
)

// AuthHandler handles the passwordless login and registration endpoints
type AuthHandler struct {
	authService   services.AuthServiceInterface
	mentorService services.MentorServiceInterface
}

func NewAuthHandler(authService services.AuthServiceInterface, mentorService services.MentorServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		mentorService: mentorService,
	}
}

// RequestLogin handles POST /api/v1/auth/request-login
// Generates a one-time login token and sends the magic link via email
func (h *AuthHandler) RequestLogin(c *gin.Context) {
	var req models.RequestLoginRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	resp, err := h.authService.RequestLogin(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyLogin handles POST /api/v1/auth/verify
// Consumes the one-time token and establishes a cookie session
func (h *AuthHandler) VerifyLogin(c *gin.Context) {
	var req models.VerifyLoginRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondError(c, http.StatusBadRequest, "Invalid token format", bindErr)
		return
	}

	role := c.Query("role")
	if role == "" {
		role = "mentor"
	}

	session, jwtToken, err := h.authService.VerifyLogin(c.Request.Context(), req.Token, role)
	if err != nil {
		respondAppError(c, err)
		return
	}

	middleware.SetSessionCookie(
		c,
		jwtToken,
		h.authService.GetSessionTTL(),
		h.authService.GetCookieDomain(),
		h.authService.GetCookieSecure(),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(
		c,
		h.authService.GetCookieDomain(),
		h.authService.GetCookieSecure(),
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSession handles GET /api/v1/auth/session
// Returns the current session info for session validation
func (h *AuthHandler) GetSession(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// RegisterMentor handles POST /api/v1/auth/register/mentor
func (h *AuthHandler) RegisterMentor(c *gin.Context) {
	var req models.RegisterMentorRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	resp, err := h.mentorService.RegisterMentor(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RegisterMentee handles POST /api/v1/auth/register/mentee
func (h *AuthHandler) RegisterMentee(c *gin.Context) {
	var req models.RegisterMenteeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(bindErr), bindErr)
		return
	}

	resp, err := h.authService.RegisterMentee(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
