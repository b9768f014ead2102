package services

import (
	"context"

	"github.com/lingora/lingora-api/config"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/repository"
	"github.com/lingora/lingora-api/internal/scheduling"
	"github.com/lingora/lingora-api/pkg/metrics"
)

// CalendarService projects availability and bookings into timezone-local
// calendars for either side of the marketplace.
type CalendarService struct {
	bookings   repository.BookingStore
	mentees    repository.MenteeStore
	mentorRepo repository.MentorRepositoryInterface
	expander   *scheduling.Expander
	clock      scheduling.Clock
	config     *config.Config
}

// NewCalendarService creates a new calendar service
func NewCalendarService(
	bookings repository.BookingStore,
	mentees repository.MenteeStore,
	mentorRepo repository.MentorRepositoryInterface,
	clock scheduling.Clock,
	cfg *config.Config,
) *CalendarService {
	return &CalendarService{
		bookings:   bookings,
		mentees:    mentees,
		mentorRepo: mentorRepo,
		expander:   scheduling.NewExpander(clock),
		clock:      clock,
		config:     cfg,
	}
}

// GetMentorCalendar expands a mentor's weekly availability over the horizon,
// removes slots taken by live bookings and projects the result, together
// with the bookings themselves, into the requested display timezone.
func (s *CalendarService) GetMentorCalendar(ctx context.Context, mentorID, displayTimezone string, horizonDays int, viewer scheduling.ViewerRole) (*models.CalendarResponse, error) {
	// A mentor who has hidden their profile still sees their own calendar.
	mentor, err := s.mentorRepo.GetByID(ctx, mentorID, models.FilterOptions{OnlyVisible: viewer != scheduling.ViewerMentor})
	if err != nil {
		return nil, err
	}

	timezone, err := scheduling.ValidateTimezone(displayTimezone, mentor.Country)
	if err != nil {
		return nil, err
	}
	horizonDays = s.clampHorizon(horizonDays)

	bookings, err := s.bookings.GetBookingsByMentor(ctx, mentorID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	candidates := s.expander.Expand(mentor.Availability, mentor.Timezone, horizonDays)
	metrics.SlotsExpanded.Observe(float64(len(candidates)))

	available := scheduling.FilterAvailable(candidates, bookings)
	metrics.CalendarRequests.WithLabelValues(string(viewer)).Inc()

	calendar := scheduling.BuildCalendar(available, bookings, timezone, viewer)
	return &models.CalendarResponse{Timezone: calendar.Timezone, Events: calendar.Events}, nil
}

// GetMenteeCalendar projects a mentee's upcoming bookings into their own
// timezone. Mentees have no availability of their own, so the calendar
// holds booking events only.
func (s *CalendarService) GetMenteeCalendar(ctx context.Context, menteeID, displayTimezone string) (*models.CalendarResponse, error) {
	mentee, err := s.mentees.GetMenteeByID(ctx, menteeID)
	if err != nil {
		return nil, err
	}

	fallbackTimezone := mentee.Timezone
	if displayTimezone != "" {
		fallbackTimezone = displayTimezone
	}
	timezone, err := scheduling.ValidateTimezone(fallbackTimezone, mentee.Country)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.GetBookingsByMentee(ctx, menteeID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	metrics.CalendarRequests.WithLabelValues(string(scheduling.ViewerMentee)).Inc()

	calendar := scheduling.BuildCalendar(nil, bookings, timezone, scheduling.ViewerMentee)
	return &models.CalendarResponse{Timezone: calendar.Timezone, Events: calendar.Events}, nil
}

func (s *CalendarService) clampHorizon(days int) int {
	if days <= 0 {
		return s.config.Scheduling.DefaultHorizonDays
	}
	if days > s.config.Scheduling.MaxHorizonDays {
		return s.config.Scheduling.MaxHorizonDays
	}
	return days
}
