package scheduling_test

import (
	"testing"
	"time"

	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/scheduling"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(status models.BookingStatus, start time.Time, minutes int) *models.Booking {
	return &models.Booking{
		ID:        "bk-1",
		Status:    status,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
	}
}

func candidates(starts ...time.Time) []scheduling.CandidateSlot {
	out := make([]scheduling.CandidateSlot, 0, len(starts))
	for _, s := range starts {
		out = append(out, scheduling.CandidateSlot{Start: s, End: s.Add(30 * time.Minute), SlotID: "slot-1"})
	}
	return out
}

func TestFilterAvailable_RemovesBookedStarts(t *testing.T) {
	a := mustParse("2026-01-12T00:00:00Z")
	b := mustParse("2026-01-12T00:30:00Z")
	bookings := []*models.Booking{booking(models.BookingStatusScheduled, a, 30)}

	got := scheduling.FilterAvailable(candidates(a, b), bookings)

	require.Len(t, got, 1)
	assert.Equal(t, b, got[0].Start)
}

func TestFilterAvailable_InactiveStatusesDoNotBlock(t *testing.T) {
	start := mustParse("2026-01-12T00:00:00Z")

	for _, status := range []models.BookingStatus{
		models.BookingStatusCancelled,
		models.BookingStatusRefunded,
		models.BookingStatusNoShow,
	} {
		bookings := []*models.Booking{booking(status, start, 30)}
		got := scheduling.FilterAvailable(candidates(start), bookings)
		assert.Len(t, got, 1, string(status))
	}
}

func TestFilterAvailable_CompletedStillOccupiesSlot(t *testing.T) {
	start := mustParse("2026-01-12T00:00:00Z")
	bookings := []*models.Booking{booking(models.BookingStatusCompleted, start, 30)}

	got := scheduling.FilterAvailable(candidates(start), bookings)

	assert.Empty(t, got)
}

func TestFilterAvailable_StartMatchTolerance(t *testing.T) {
	start := mustParse("2026-01-12T00:00:00Z")
	skewed := start.Add(30 * time.Second)
	farOff := start.Add(2 * time.Minute)
	bookings := []*models.Booking{booking(models.BookingStatusScheduled, skewed, 30)}

	got := scheduling.FilterAvailable(candidates(start, farOff), bookings)

	// 30s of skew still counts as the same slot; 2 minutes does not
	require.Len(t, got, 1)
	assert.Equal(t, farOff, got[0].Start)
}

func tokyoMentor() *models.Mentor {
	return &models.Mentor{
		ID:       "mentor-1",
		Timezone: "Asia/Tokyo",
		Availability: []*models.AvailabilitySlot{
			{ID: "slot-1", Day: "Mon", StartTime: "09:00", EndTime: "12:00", Interval: 30},
		},
	}
}

func TestValidateBookingTime_Accepts(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})

	// Monday 10:00 JST
	err := v.ValidateBookingTime(tokyoMentor(), nil, mustParse("2026-01-12T01:00:00Z"), 60)
	require.NoError(t, err)
}

func TestValidateBookingTime_RejectsPastStart(t *testing.T) {
	now := mustParse("2026-01-12T01:00:00Z")
	v := scheduling.NewValidator(fakeClock{now: now})

	err := v.ValidateBookingTime(tokyoMentor(), nil, now.Add(-time.Hour), 60)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Exactly now is not strictly future either
	err = v.ValidateBookingTime(tokyoMentor(), nil, now, 60)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestValidateBookingTime_DurationBounds(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})
	start := mustParse("2026-01-12T01:00:00Z")

	assert.ErrorIs(t, v.ValidateBookingTime(tokyoMentor(), nil, start, 15), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateBookingTime(tokyoMentor(), nil, start, 200), apperrors.ErrInvalidInput)
	assert.NoError(t, v.ValidateBookingTime(tokyoMentor(), nil, start, 30))
	assert.NoError(t, v.ValidateBookingTime(tokyoMentor(), nil, start, 180))
}

func TestValidateBookingTime_DetectsTrueOverlap(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})
	mentor := tokyoMentor()

	// Existing 10:00-11:00 JST lesson
	existing := []*models.Booking{booking(models.BookingStatusScheduled, mustParse("2026-01-12T01:00:00Z"), 60)}

	// A 90-minute request at 09:30 JST overlaps its head even though the
	// starts differ by a full slot
	err := v.ValidateBookingTime(mentor, existing, mustParse("2026-01-12T00:30:00Z"), 90)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Back-to-back at 11:00 JST touches but does not overlap
	assert.NoError(t, v.ValidateBookingTime(mentor, existing, mustParse("2026-01-12T02:00:00Z"), 60))
}

func TestValidateBookingTime_CancelledAndRefundedFreeTheSlot(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})
	mentor := tokyoMentor()
	start := mustParse("2026-01-12T01:00:00Z")

	for _, status := range []models.BookingStatus{models.BookingStatusCancelled, models.BookingStatusRefunded} {
		existing := []*models.Booking{booking(status, start, 60)}
		assert.NoError(t, v.ValidateBookingTime(mentor, existing, start, 60), string(status))
	}
}

func TestValidateBookingTime_NoShowStillBlocks(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})
	start := mustParse("2026-01-12T01:00:00Z")
	existing := []*models.Booking{booking(models.BookingStatusNoShow, start, 60)}

	err := v.ValidateBookingTime(tokyoMentor(), existing, start, 60)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestValidateBookingTime_OutsideDeclaredAvailability(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})

	// Monday 15:00 JST, window is 09:00-12:00
	err := v.ValidateBookingTime(tokyoMentor(), nil, mustParse("2026-01-12T06:00:00Z"), 60)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Right at the window end is already outside (half-open window)
	err = v.ValidateBookingTime(tokyoMentor(), nil, mustParse("2026-01-12T03:00:00Z"), 60)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestValidateBookingTime_EmptyAvailabilityIsUnconstrained(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})
	mentor := &models.Mentor{ID: "mentor-2", Timezone: "Asia/Tokyo"}

	assert.NoError(t, v.ValidateBookingTime(mentor, nil, mustParse("2026-01-12T06:00:00Z"), 60))
}

func TestValidateBookingTime_MidnightWrapWindow(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})
	mentor := &models.Mentor{
		ID:       "mentor-3",
		Timezone: "Asia/Tokyo",
		Availability: []*models.AvailabilitySlot{
			{ID: "late", Day: "Fri", StartTime: "23:00", EndTime: "01:00", Interval: 30},
		},
	}

	// Friday 23:30 JST sits in the head of the wrapped window
	assert.NoError(t, v.ValidateBookingTime(mentor, nil, mustParse("2026-01-09T14:30:00Z"), 60))

	// Saturday 00:30 JST sits in the tail
	assert.NoError(t, v.ValidateBookingTime(mentor, nil, mustParse("2026-01-09T15:30:00Z"), 30))

	// Saturday 02:00 JST is past the tail
	err := v.ValidateBookingTime(mentor, nil, mustParse("2026-01-09T17:00:00Z"), 30)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestValidateBookingTime_TimezoneResolvedFromCountry(t *testing.T) {
	v := scheduling.NewValidator(fakeClock{now: mustParse("2026-01-06T00:00:00Z")})
	mentor := &models.Mentor{
		ID:      "mentor-4",
		Country: "JP",
		Availability: []*models.AvailabilitySlot{
			{ID: "slot-1", Day: "Mon", StartTime: "09:00", EndTime: "12:00", Interval: 30},
		},
	}

	// Monday 10:00 JST only reads as in-window when JP resolves to Tokyo
	assert.NoError(t, v.ValidateBookingTime(mentor, nil, mustParse("2026-01-12T01:00:00Z"), 60))
}
