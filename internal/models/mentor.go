package models

import (
	"strings"
	"time"
)

// Mentor represents a language mentor in the marketplace
type Mentor struct {
	ID           string              `json:"id"`
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Headline     string              `json:"headline"`
	About        string              `json:"about"`
	Languages    []string            `json:"languages"`
	HourlyRate   int                 `json:"hourlyRate"` // credits per hour
	Timezone     string              `json:"timezone"`   // IANA name, may be empty
	Country      string              `json:"country"`    // ISO code fallback for timezone
	AvatarURL    string              `json:"avatarUrl"`
	IsVisible    bool                `json:"isVisible"`
	SessionCount int                 `json:"sessionCount"`
	Availability []*AvailabilitySlot `json:"availability"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`

	// Secure fields (cleared by repository unless ShowHidden is set)
	AuthToken string `json:"authToken,omitempty"`
}

// PublicMentorResponse represents the public API response format
type PublicMentorResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Headline     string `json:"headline"`
	About        string `json:"about"`
	Languages    string `json:"languages"`
	HourlyRate   int    `json:"hourlyRate"`
	Timezone     string `json:"timezone"`
	SessionCount int    `json:"sessionCount"`
	AvatarURL    string `json:"avatarUrl"`
	Link         string `json:"link"`
}

// ToPublicResponse converts a Mentor to PublicMentorResponse
func (m *Mentor) ToPublicResponse(baseURL string) PublicMentorResponse {
	return PublicMentorResponse{
		ID:           m.ID,
		Name:         m.Name,
		Headline:     m.Headline,
		About:        m.About,
		Languages:    strings.Join(m.Languages, ","),
		HourlyRate:   m.HourlyRate,
		Timezone:     m.Timezone,
		SessionCount: m.SessionCount,
		AvatarURL:    m.AvatarURL,
		Link:         baseURL + "/mentor/" + m.Slug,
	}
}

// LessonCost computes the cost in credits for a lesson of the given length.
func (m *Mentor) LessonCost(durationMinutes int) int {
	return m.HourlyRate * durationMinutes / 60
}

// FilterOptions represents options for filtering mentors
type FilterOptions struct {
	OnlyVisible  bool
	ShowHidden   bool
	ForceRefresh bool
}

// UpdateProfileRequest is the payload for a mentor profile update.
type UpdateProfileRequest struct {
	Name       string   `json:"name" binding:"omitempty,min=2,max=100"`
	Headline   string   `json:"headline" binding:"omitempty,max=200"`
	About      string   `json:"about" binding:"omitempty,max=5000"`
	Languages  []string `json:"languages" binding:"omitempty,dive,min=2,max=40"`
	HourlyRate int      `json:"hourlyRate" binding:"omitempty,min=0,max=100000"`
	Timezone   string   `json:"timezone" binding:"omitempty,max=64"`
	Country    string   `json:"country" binding:"omitempty,len=2|len=3"`
}

// UploadAvatarRequest carries a base64-encoded profile picture.
type UploadAvatarRequest struct {
	ImageData   string `json:"imageData" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}
