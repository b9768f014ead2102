package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lingora/lingora-api/config"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/repository"
	"github.com/lingora/lingora-api/internal/scheduling"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/lingora/lingora-api/pkg/httpclient"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/metrics"
	"github.com/lingora/lingora-api/pkg/trigger"
	"go.uber.org/zap"
)

// BookingService handles the booking lifecycle: creation behind the conflict
// gate, status transitions and the credit movements tied to them.
type BookingService struct {
	bookings   repository.BookingStore
	mentees    repository.MenteeStore
	mentorRepo repository.MentorRepositoryInterface
	validator  *scheduling.Validator
	clock      scheduling.Clock
	config     *config.Config
	httpClient httpclient.Client
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings repository.BookingStore,
	mentees repository.MenteeStore,
	mentorRepo repository.MentorRepositoryInterface,
	clock scheduling.Clock,
	cfg *config.Config,
	httpClient httpclient.Client,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		mentees:    mentees,
		mentorRepo: mentorRepo,
		validator:  scheduling.NewValidator(clock),
		clock:      clock,
		config:     cfg,
		httpClient: httpClient,
	}
}

// CreateBooking books a lesson for the authenticated mentee. The requested
// time must pass the full conflict and availability gate; one-time lessons
// are paid from the mentee's credit balance up front.
func (s *BookingService) CreateBooking(ctx context.Context, menteeID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	mentor, err := s.mentorRepo.GetByID(ctx, req.MentorID, models.FilterOptions{OnlyVisible: true})
	if err != nil {
		return nil, err
	}

	mentee, err := s.mentees.GetMenteeByID(ctx, menteeID)
	if err != nil {
		return nil, err
	}

	// Past bookings cannot overlap a future start; only fetch the live tail
	existing, err := s.bookings.GetBookingsByMentor(ctx, mentor.ID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateBookingTime(mentor, existing, req.StartTime, req.Duration); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			metrics.BookingConflicts.Inc()
		}
		metrics.BookingsCreated.WithLabelValues(bookingTypeLabel(req.UseSubscription), "rejected").Inc()
		return nil, err
	}

	bookingType := models.BookingTypeOneTime
	cost := mentor.LessonCost(req.Duration)
	if req.UseSubscription {
		// Subscription lessons are covered by the plan, not the balance
		bookingType = models.BookingTypeSubscription
		cost = 0
	}

	if cost > 0 {
		if err := s.mentees.AdjustCredits(ctx, menteeID, -cost); err != nil {
			metrics.BookingsCreated.WithLabelValues(string(bookingType), "rejected").Inc()
			return nil, err
		}
	}

	booking := &models.Booking{
		ID:         uuid.NewString(),
		MentorID:   mentor.ID,
		MenteeID:   menteeID,
		MentorName: mentor.Name,
		MenteeName: mentee.Name,
		StartTime:  req.StartTime.UTC(),
		EndTime:    req.StartTime.UTC().Add(time.Duration(req.Duration) * time.Minute),
		Status:     models.BookingStatusScheduled,
		TotalCost:  cost,
		Type:       bookingType,
	}

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		// Hand the credits back; the lesson never materialized
		if cost > 0 {
			if refundErr := s.mentees.AdjustCredits(ctx, menteeID, cost); refundErr != nil {
				logger.Error("Failed to refund credits after booking insert failure",
					zap.String("mentee_id", menteeID),
					zap.Int("credits", cost),
					zap.Error(refundErr))
			}
		}
		metrics.BookingsCreated.WithLabelValues(string(bookingType), "error").Inc()
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues(string(bookingType), "success").Inc()
	trigger.CallAsync(s.config.EventTriggers.BookingCreatedTriggerURL, booking.ID, s.httpClient)

	logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("mentor_id", mentor.ID),
		zap.String("mentee_id", menteeID),
		zap.Time("start_time", booking.StartTime),
		zap.Int("cost", cost))

	return booking, nil
}

// GetBooking returns a booking visible to the requesting session
func (s *BookingService) GetBooking(ctx context.Context, id string, session *models.Session) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessBooking(booking, session) {
		return nil, apperrors.AccessDeniedError("not a participant of this booking")
	}
	return booking, nil
}

// ListForMentor returns a mentor's bookings, optionally only the upcoming ones
func (s *BookingService) ListForMentor(ctx context.Context, mentorID string, upcomingOnly bool) ([]*models.Booking, error) {
	return s.bookings.GetBookingsByMentor(ctx, mentorID, s.listHorizon(upcomingOnly))
}

// ListForMentee returns a mentee's bookings, optionally only the upcoming ones
func (s *BookingService) ListForMentee(ctx context.Context, menteeID string, upcomingOnly bool) ([]*models.Booking, error) {
	return s.bookings.GetBookingsByMentee(ctx, menteeID, s.listHorizon(upcomingOnly))
}

// UpdateStatus applies a lifecycle transition with its side effects: credits
// flow back on cancellation and refund, the mentor's session counter moves on
// completion.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, next models.BookingStatus, session *models.Session) (*models.Booking, error) {
	if !next.IsValid() {
		return nil, apperrors.InvalidInputError("status", "unknown status")
	}

	booking, err := s.bookings.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canAccessBooking(booking, session) {
		return nil, apperrors.AccessDeniedError("not a participant of this booking")
	}
	if err := checkTransitionAllowed(booking, next, session); err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, apperrors.ConflictError("cannot move booking from " +
			string(booking.Status) + " to " + string(next))
	}

	if err := s.bookings.UpdateBookingStatus(ctx, id, next); err != nil {
		return nil, err
	}

	s.applyTransitionEffects(ctx, booking, next)

	booking.Status = next
	booking.UpdatedAt = s.clock.Now()

	logger.Info("Booking status updated",
		zap.String("booking_id", id),
		zap.String("status", string(next)))

	return booking, nil
}

// applyTransitionEffects runs the side effects of a committed transition.
// Failures are logged, not propagated: the status change already happened.
func (s *BookingService) applyTransitionEffects(ctx context.Context, booking *models.Booking, next models.BookingStatus) {
	switch next {
	case models.BookingStatusCancelled, models.BookingStatusRefunded:
		if booking.TotalCost > 0 {
			if err := s.mentees.AdjustCredits(ctx, booking.MenteeID, booking.TotalCost); err != nil {
				logger.Error("Failed to return credits for booking",
					zap.String("booking_id", booking.ID),
					zap.Int("credits", booking.TotalCost),
					zap.Error(err))
			}
		}
		if next == models.BookingStatusCancelled {
			trigger.CallAsync(s.config.EventTriggers.BookingCancelledTriggerURL, booking.ID, s.httpClient)
		}
	case models.BookingStatusCompleted:
		if err := s.mentorRepo.IncrementSessionCount(ctx, booking.MentorID); err != nil {
			logger.Error("Failed to increment mentor session count",
				zap.String("mentor_id", booking.MentorID),
				zap.Error(err))
		}
	}
}

func (s *BookingService) listHorizon(upcomingOnly bool) time.Time {
	if upcomingOnly {
		return s.clock.Now()
	}
	return time.Time{}
}

// canAccessBooking reports whether the session may see the booking
func canAccessBooking(booking *models.Booking, session *models.Session) bool {
	if session == nil {
		return false
	}
	if session.Role == "admin" {
		return true
	}
	return booking.MentorID == session.UserID || booking.MenteeID == session.UserID
}

// checkTransitionAllowed enforces who may request which transition. Mentors
// run the lesson outcome; either side may cancel; refunds are an admin
// operation.
func checkTransitionAllowed(booking *models.Booking, next models.BookingStatus, session *models.Session) error {
	if session.Role == "admin" {
		return nil
	}

	switch next {
	case models.BookingStatusCompleted, models.BookingStatusNoShow:
		if session.UserID != booking.MentorID {
			return apperrors.AccessDeniedError("only the mentor can record the lesson outcome")
		}
	case models.BookingStatusCancelled:
		// Either participant may cancel
	case models.BookingStatusRefunded:
		return apperrors.AccessDeniedError("refunds require an admin")
	default:
		return apperrors.InvalidInputError("status", "transition not allowed")
	}

	return nil
}

func bookingTypeLabel(useSubscription bool) string {
	if useSubscription {
		return string(models.BookingTypeSubscription)
	}
	return string(models.BookingTypeOneTime)
}
