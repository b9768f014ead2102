package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/services"
)

// MentorHandler serves the public mentor catalog
type MentorHandler struct {
	service services.MentorServiceInterface
	baseURL string
}

func NewMentorHandler(service services.MentorServiceInterface, baseURL string) *MentorHandler {
	return &MentorHandler{service: service, baseURL: baseURL}
}

// GetMentors handles GET /api/v1/mentors
// Lists visible mentors as catalog cards, optionally filtered by taught
// language
func (h *MentorHandler) GetMentors(c *gin.Context) {
	language := c.Query("language")

	mentors, err := h.service.SearchMentors(c.Request.Context(), language, models.FilterOptions{
		OnlyVisible: true,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch mentors", err)
		return
	}

	cards := make([]models.PublicMentorResponse, 0, len(mentors))
	for _, mentor := range mentors {
		cards = append(cards, mentor.ToPublicResponse(h.baseURL))
	}

	c.JSON(http.StatusOK, gin.H{"mentors": cards})
}

// GetMentorByID handles GET /api/v1/mentors/:id
func (h *MentorHandler) GetMentorByID(c *gin.Context) {
	mentor, err := h.service.GetMentorByID(c.Request.Context(), c.Param("id"), models.FilterOptions{
		OnlyVisible: true,
	})
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentor)
}

// GetMentorBySlug handles GET /api/v1/mentors/slug/:slug
func (h *MentorHandler) GetMentorBySlug(c *gin.Context) {
	mentor, err := h.service.GetMentorBySlug(c.Request.Context(), c.Param("slug"), models.FilterOptions{
		OnlyVisible: true,
	})
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, mentor)
}

// GetLanguages handles GET /api/v1/languages
// Returns the distinct set of languages taught by visible mentors
func (h *MentorHandler) GetLanguages(c *gin.Context) {
	languages, err := h.service.GetLanguages(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch languages", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"languages": languages})
}

// GetInternalMentors handles POST /internal/api/v1/mentors
// Full mentor records for trusted backend callers, with optional cache bypass
func (h *MentorHandler) GetInternalMentors(c *gin.Context) {
	forceRefresh := c.Query("force_reset_cache") == "true"

	var body struct {
		OnlyVisible bool `json:"only_visible"`
		ShowHidden  bool `json:"show_hidden"`
	}
	_ = c.ShouldBindJSON(&body)

	opts := models.FilterOptions{
		OnlyVisible:  body.OnlyVisible,
		ShowHidden:   body.ShowHidden,
		ForceRefresh: forceRefresh,
	}

	if id := c.Query("id"); id != "" {
		mentor, err := h.service.GetMentorByID(c.Request.Context(), id, opts)
		if err != nil {
			respondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mentors": []*models.Mentor{mentor}})
		return
	}

	mentors, err := h.service.GetAllMentors(c.Request.Context(), opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch mentors", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mentors": mentors})
}
