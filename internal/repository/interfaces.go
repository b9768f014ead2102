package repository

import (
	"context"
	"time"

	"github.com/lingora/lingora-api/internal/models"
)

// MentorStore defines the persistence operations for mentors.
// Satisfied by *postgres.Client.
type MentorStore interface {
	GetAllMentors(ctx context.Context) ([]*models.Mentor, error)
	GetMentorByID(ctx context.Context, id string) (*models.Mentor, error)
	GetMentorBySlug(ctx context.Context, slug string) (*models.Mentor, error)
	GetMentorByEmail(ctx context.Context, email string) (*models.Mentor, error)
	GetMentorByLoginToken(ctx context.Context, token string) (*models.Mentor, error)
	CreateMentor(ctx context.Context, mentor *models.Mentor) error
	UpdateMentorProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) error
	UpdateMentorAvatar(ctx context.Context, id, avatarURL string) error
	UpdateMentorAuthToken(ctx context.Context, id, token string) error
	IncrementSessionCount(ctx context.Context, id string) error
}

// AvailabilityStore defines the persistence operations for availability
// ranges. Satisfied by *postgres.Client.
type AvailabilityStore interface {
	GetSlotsByMentor(ctx context.Context, mentorID string) ([]*models.AvailabilitySlot, error)
	GetAllSlots(ctx context.Context) ([]*models.AvailabilitySlot, error)
	InsertSlot(ctx context.Context, slot *models.AvailabilitySlot) error
	UpdateSlot(ctx context.Context, mentorID string, slot *models.AvailabilitySlot) error
	DeleteSlot(ctx context.Context, mentorID, slotID string) error
	ReplaceSlot(ctx context.Context, mentorID, removeID string, replacements []*models.AvailabilitySlot) error
}

// BookingStore defines the persistence operations for bookings.
// Satisfied by *postgres.Client.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsByMentor(ctx context.Context, mentorID string, endingAfter time.Time) ([]*models.Booking, error)
	GetBookingsByMentee(ctx context.Context, menteeID string, endingAfter time.Time) ([]*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error
}

// MenteeStore defines the persistence operations for mentees.
// Satisfied by *postgres.Client.
type MenteeStore interface {
	GetMenteeByID(ctx context.Context, id string) (*models.Mentee, error)
	GetMenteeByEmail(ctx context.Context, email string) (*models.Mentee, error)
	GetMenteeByLoginToken(ctx context.Context, token string) (*models.Mentee, error)
	CreateMentee(ctx context.Context, mentee *models.Mentee) error
	UpdateMenteeAuthToken(ctx context.Context, id, token string) error
	AdjustCredits(ctx context.Context, menteeID string, delta int) error
}
