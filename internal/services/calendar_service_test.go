package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/lingora/lingora-api/config"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/scheduling"
	"github.com/lingora/lingora-api/internal/services"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newCalendarService(now time.Time) (*services.CalendarService, *bookingServiceMocks) {
	m := &bookingServiceMocks{
		bookings:   new(MockBookingStore),
		mentees:    new(MockMenteeStore),
		mentorRepo: new(MockMentorRepository),
	}
	cfg := &config.Config{
		Scheduling: config.SchedulingConfig{DefaultHorizonDays: 14, MaxHorizonDays: 60},
	}
	svc := services.NewCalendarService(m.bookings, m.mentees, m.mentorRepo, fixedClock{now: now}, cfg)
	return svc, m
}

func morningOnlyMentor() *models.Mentor {
	return &models.Mentor{
		ID:        "m-1",
		Name:      "Yuki",
		Timezone:  "Asia/Tokyo",
		Country:   "JP",
		IsVisible: true,
		Availability: []*models.AvailabilitySlot{
			{ID: "slot-1", Day: "Mon", StartTime: "09:00", EndTime: "10:00", Interval: 30, Recurring: true},
		},
	}
}

func TestCalendarService_GetMentorCalendar_TokyoViewedFromNewYork(t *testing.T) {
	service, m := newCalendarService(bookingNow)
	ctx := context.Background()

	m.mentorRepo.On("GetByID", ctx, "m-1", models.FilterOptions{OnlyVisible: true}).
		Return(morningOnlyMentor(), nil).Once()
	m.bookings.On("GetBookingsByMentor", ctx, "m-1", bookingNow).
		Return([]*models.Booking{}, nil).Once()

	calendar, err := service.GetMentorCalendar(ctx, "m-1", "America/New_York", 14, scheduling.ViewerMentee)
	assert.NoError(t, err)
	assert.Equal(t, "America/New_York", calendar.Timezone)
	// Two Monday mornings in Tokyo inside the horizon, two starts each
	assert.Len(t, calendar.Events, 4)

	// 09:00 Monday in Tokyo renders as 19:00 Sunday for the New York viewer
	first := calendar.Events[0]
	assert.True(t, first.Start.Equal(time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)))
	local := first.Start.In(mustLoadLocation(t, "America/New_York"))
	assert.Equal(t, time.Sunday, local.Weekday())
	assert.Equal(t, 19, local.Hour())
	m.mentorRepo.AssertExpectations(t)
	m.bookings.AssertExpectations(t)
}

func TestCalendarService_GetMentorCalendar_BookingsOccludeSlots(t *testing.T) {
	service, m := newCalendarService(bookingNow)
	ctx := context.Background()

	booked := []*models.Booking{{
		ID:         "b-1",
		MentorID:   "m-1",
		MenteeID:   "e-1",
		MenteeName: "Sam",
		StartTime:  time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, time.January, 12, 0, 30, 0, 0, time.UTC),
		Status:     models.BookingStatusScheduled,
	}}

	m.mentorRepo.On("GetByID", ctx, "m-1", models.FilterOptions{OnlyVisible: false}).
		Return(morningOnlyMentor(), nil).Once()
	m.bookings.On("GetBookingsByMentor", ctx, "m-1", bookingNow).
		Return(booked, nil).Once()

	calendar, err := service.GetMentorCalendar(ctx, "m-1", "Asia/Tokyo", 14, scheduling.ViewerMentor)
	assert.NoError(t, err)
	// Three open starts remain, plus the booking itself
	assert.Len(t, calendar.Events, 4)

	var bookedEvents, availableEvents int
	for _, event := range calendar.Events {
		switch event.Type {
		case models.EventTypeBooked:
			bookedEvents++
			assert.Equal(t, "Sam", event.Title)
		case models.EventTypeAvailable:
			availableEvents++
		}
	}
	assert.Equal(t, 1, bookedEvents)
	assert.Equal(t, 3, availableEvents)
}

func TestCalendarService_GetMentorCalendar_HiddenMentorSeesOwnCalendar(t *testing.T) {
	service, m := newCalendarService(bookingNow)
	ctx := context.Background()

	hidden := morningOnlyMentor()
	hidden.IsVisible = false

	// Viewing as the mentor bypasses the visibility filter
	m.mentorRepo.On("GetByID", ctx, "m-1", models.FilterOptions{OnlyVisible: false}).
		Return(hidden, nil).Once()
	m.bookings.On("GetBookingsByMentor", ctx, "m-1", bookingNow).
		Return([]*models.Booking{}, nil).Once()

	calendar, err := service.GetMentorCalendar(ctx, "m-1", "Asia/Tokyo", 14, scheduling.ViewerMentor)
	assert.NoError(t, err)
	assert.Len(t, calendar.Events, 4)

	// The mentee-facing lookup keeps the filter and never finds the mentor
	m.mentorRepo.On("GetByID", ctx, "m-1", models.FilterOptions{OnlyVisible: true}).
		Return(nil, apperrors.NotFoundError("mentor")).Once()

	calendar, err = service.GetMentorCalendar(ctx, "m-1", "Asia/Tokyo", 14, scheduling.ViewerMentee)
	assert.Nil(t, calendar)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	m.mentorRepo.AssertExpectations(t)
}

func TestCalendarService_GetMentorCalendar_HorizonClamped(t *testing.T) {
	service, m := newCalendarService(bookingNow)
	ctx := context.Background()

	m.mentorRepo.On("GetByID", ctx, "m-1", models.FilterOptions{OnlyVisible: true}).
		Return(morningOnlyMentor(), nil).Twice()
	m.bookings.On("GetBookingsByMentor", ctx, "m-1", bookingNow).
		Return([]*models.Booking{}, nil).Twice()

	// Zero falls back to the 14-day default
	calendar, err := service.GetMentorCalendar(ctx, "m-1", "Asia/Tokyo", 0, scheduling.ViewerMentee)
	assert.NoError(t, err)
	assert.Len(t, calendar.Events, 4)

	// Oversized horizons are capped at the 60-day maximum
	calendar, err = service.GetMentorCalendar(ctx, "m-1", "Asia/Tokyo", 365, scheduling.ViewerMentee)
	assert.NoError(t, err)
	assert.Len(t, calendar.Events, 16)
}

func TestCalendarService_GetMentorCalendar_FallsBackToMentorCountry(t *testing.T) {
	service, m := newCalendarService(bookingNow)
	ctx := context.Background()

	m.mentorRepo.On("GetByID", ctx, "m-1", models.FilterOptions{OnlyVisible: true}).
		Return(morningOnlyMentor(), nil).Once()
	m.bookings.On("GetBookingsByMentor", ctx, "m-1", bookingNow).
		Return([]*models.Booking{}, nil).Once()

	calendar, err := service.GetMentorCalendar(ctx, "m-1", "", 14, scheduling.ViewerMentee)
	assert.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", calendar.Timezone)
}

func TestCalendarService_GetMentorCalendar_InvalidTimezone(t *testing.T) {
	service, m := newCalendarService(bookingNow)
	ctx := context.Background()

	m.mentorRepo.On("GetByID", ctx, "m-1", models.FilterOptions{OnlyVisible: true}).
		Return(morningOnlyMentor(), nil).Once()

	calendar, err := service.GetMentorCalendar(ctx, "m-1", "Mars/Olympus_Mons", 14, scheduling.ViewerMentee)
	assert.Nil(t, calendar)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCalendarService_GetMenteeCalendar(t *testing.T) {
	service, m := newCalendarService(bookingNow)
	ctx := context.Background()

	m.mentees.On("GetMenteeByID", ctx, "e-1").
		Return(&models.Mentee{ID: "e-1", Name: "Sam", Timezone: "America/New_York", Country: "US"}, nil).Once()
	m.bookings.On("GetBookingsByMentee", ctx, "e-1", bookingNow).
		Return([]*models.Booking{{
			ID:         "b-1",
			MentorID:   "m-1",
			MenteeID:   "e-1",
			MentorName: "Yuki",
			StartTime:  time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2026, time.January, 12, 1, 0, 0, 0, time.UTC),
			Status:     models.BookingStatusScheduled,
		}}, nil).Once()

	calendar, err := service.GetMenteeCalendar(ctx, "e-1", "")
	assert.NoError(t, err)
	assert.Equal(t, "America/New_York", calendar.Timezone)
	assert.Len(t, calendar.Events, 1)
	assert.Equal(t, models.EventTypeBooked, calendar.Events[0].Type)
	// The mentee sees the mentor's name on the event
	assert.Equal(t, "Yuki", calendar.Events[0].Title)
}

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	assert.NoError(t, err)
	return loc
}
