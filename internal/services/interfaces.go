package services

import (
	"context"

	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/scheduling"
	"github.com/lingora/lingora-api/pkg/jwt"
)

// MentorServiceInterface defines the interface for mentor service operations
type MentorServiceInterface interface {
	GetAllMentors(ctx context.Context, opts models.FilterOptions) ([]*models.Mentor, error)
	GetMentorByID(ctx context.Context, id string, opts models.FilterOptions) (*models.Mentor, error)
	GetMentorBySlug(ctx context.Context, slug string, opts models.FilterOptions) (*models.Mentor, error)
	SearchMentors(ctx context.Context, language string, opts models.FilterOptions) ([]*models.Mentor, error)
	GetLanguages(ctx context.Context) ([]string, error)
	RegisterMentor(ctx context.Context, req *models.RegisterMentorRequest) (*models.RegisterMentorResponse, error)
	UpdateProfile(ctx context.Context, mentorID string, req *models.UpdateProfileRequest) error
	UploadAvatar(ctx context.Context, mentorID string, req *models.UploadAvatarRequest) (string, error)
}

// AvailabilityServiceInterface defines the interface for availability mutations
type AvailabilityServiceInterface interface {
	GetAvailability(ctx context.Context, mentorID string) ([]*models.AvailabilitySlot, error)
	AddRange(ctx context.Context, mentorID string, req *models.AvailabilityRequest) (*models.AvailabilitySlot, error)
	UpdateRange(ctx context.Context, mentorID, slotID string, req *models.AvailabilityRequest) (*models.AvailabilitySlot, error)
	DeleteRange(ctx context.Context, mentorID, slotID string) error
	DeleteSlotOccurrence(ctx context.Context, mentorID string, req *models.DeleteSlotRequest) error
}

// BookingServiceInterface defines the interface for booking operations
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, menteeID string, req *models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string, session *models.Session) (*models.Booking, error)
	ListForMentor(ctx context.Context, mentorID string, upcomingOnly bool) ([]*models.Booking, error)
	ListForMentee(ctx context.Context, menteeID string, upcomingOnly bool) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, next models.BookingStatus, session *models.Session) (*models.Booking, error)
}

// CalendarServiceInterface defines the interface for calendar projection
type CalendarServiceInterface interface {
	GetMentorCalendar(ctx context.Context, mentorID, displayTimezone string, horizonDays int, viewer scheduling.ViewerRole) (*models.CalendarResponse, error)
	GetMenteeCalendar(ctx context.Context, menteeID, displayTimezone string) (*models.CalendarResponse, error)
}

// AuthServiceInterface defines the passwordless login flow for mentors and
// mentees
type AuthServiceInterface interface {
	RequestLogin(ctx context.Context, req *models.RequestLoginRequest) (*models.RequestLoginResponse, error)
	VerifyLogin(ctx context.Context, token, role string) (*models.Session, string, error)
	RegisterMentee(ctx context.Context, req *models.RegisterMenteeRequest) (*models.RegisterMenteeResponse, error)
	GetSessionTTL() int
	GetCookieDomain() string
	GetCookieSecure() bool
	GetTokenManager() *jwt.TokenManager
}
