package scheduling

import (
	"fmt"
	"time"

	"github.com/lingora/lingora-api/internal/models"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
)

const (
	// MinBookingMinutes and MaxBookingMinutes bound a single lesson.
	MinBookingMinutes = 30
	MaxBookingMinutes = 180

	// StartMatchTolerance is the clock-skew window within which a booking
	// start and a candidate start count as the same slot. All bookings sit on
	// the same interval grid, so the display filter only needs to compare
	// start instants.
	StartMatchTolerance = time.Minute
)

// FilterAvailable removes candidate slots whose start coincides with an
// active booking for the mentor. This is the optimistic read path: it never
// errors. The write path (ValidateBookingTime) remains the authoritative
// gate.
func FilterAvailable(candidates []CandidateSlot, bookings []*models.Booking) []CandidateSlot {
	out := make([]CandidateSlot, 0, len(candidates))
	for _, c := range candidates {
		if !startConflicts(c.Start, bookings) {
			out = append(out, c)
		}
	}
	return out
}

func startConflicts(start time.Time, bookings []*models.Booking) bool {
	for _, b := range bookings {
		if b == nil || !b.Status.IsActive() {
			continue
		}
		diff := b.StartTime.Sub(start)
		if diff < 0 {
			diff = -diff
		}
		if diff < StartMatchTolerance {
			return true
		}
	}
	return false
}

// Validator is the authoritative gate for booking creation and reschedule.
// Unlike the display filter it uses true interval overlap, so irregular
// durations cannot slip through.
type Validator struct {
	clock Clock
}

// NewValidator creates a Validator using the given clock for "now".
func NewValidator(clock Clock) *Validator {
	return &Validator{clock: clock}
}

// ValidateBookingTime checks a prospective booking start against the
// mentor's existing bookings and declared availability. It returns a wrapped
// validation or conflict error on any violated invariant; callers must not
// suppress it.
func (v *Validator) ValidateBookingTime(mentor *models.Mentor, bookings []*models.Booking, start time.Time, durationMinutes int) error {
	now := v.clock.Now()
	if !start.After(now) {
		return apperrors.InvalidInputError("startTime", "must be in the future")
	}

	if durationMinutes < MinBookingMinutes || durationMinutes > MaxBookingMinutes {
		return apperrors.InvalidInputError("duration",
			fmt.Sprintf("must be between %d and %d minutes", MinBookingMinutes, MaxBookingMinutes))
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	for _, b := range bookings {
		if b == nil || b.Status == models.BookingStatusCancelled || b.Status == models.BookingStatusRefunded {
			continue
		}
		if start.Before(b.EndTime) && end.After(b.StartTime) {
			return apperrors.ConflictError(fmt.Sprintf(
				"mentor already has a booking at %s", b.StartTime.UTC().Format(time.RFC3339)))
		}
	}

	return v.checkDeclaredAvailability(mentor, start)
}

// checkDeclaredAvailability verifies the requested start falls inside some
// declared range. Mentors with no declared availability are exempt and
// treated as always bookable.
func (v *Validator) checkDeclaredAvailability(mentor *models.Mentor, start time.Time) error {
	if mentor == nil || len(mentor.Availability) == 0 {
		return nil
	}

	tz := mentor.Timezone
	if tz == "" {
		tz = GetTimezoneByCountry(mentor.Country)
	}

	local := ConvertTimezone(start, tz)
	day := models.WeekdayAbbrevs[int(local.Weekday())]
	prevDay := models.WeekdayAbbrevs[(int(local.Weekday())+6)%7]
	requested := local.Hour()*60 + local.Minute()

	for _, slot := range mentor.Availability {
		if slot == nil {
			continue
		}
		startMin, err := MinutesOfDay(slot.StartTime)
		if err != nil {
			continue
		}
		endMin, ok := rangeEndMinutes(slot, startMin)
		if !ok {
			continue
		}

		if endMin > startMin {
			// Plain same-day window: slotStart <= requested < slotEnd
			if slot.Day == day && requested >= startMin && requested < endMin {
				return nil
			}
		} else {
			// Window crosses midnight: the head belongs to the declared day,
			// the tail to the following one.
			if slot.Day == day && requested >= startMin {
				return nil
			}
			if slot.Day == prevDay && requested < endMin {
				return nil
			}
		}
	}

	return apperrors.InvalidInputError("startTime", "outside the mentor's declared availability")
}

// rangeEndMinutes resolves the end minute-of-day for a declared range.
func rangeEndMinutes(slot *models.AvailabilitySlot, startMin int) (int, bool) {
	if slot.EndTime != "" {
		endMin, err := MinutesOfDay(slot.EndTime)
		if err == nil {
			return endMin, true
		}
	}
	if slot.Duration > 0 {
		return (startMin + slot.Duration) % minutesPerDay, true
	}
	return 0, false
}
