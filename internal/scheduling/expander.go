package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/pkg/logger"
	"go.uber.org/zap"
)

// CandidateSlot is one discrete bookable instance produced by expanding an
// availability range at interval granularity. Start and End are absolute
// instants.
type CandidateSlot struct {
	Start     time.Time
	End       time.Time
	SlotID    string
	Recurring bool
}

// Expander turns recurring weekly availability ranges into concrete bookable
// instants over a lookahead horizon. It is the optimistic display path: it
// never errors, it skips anything malformed.
type Expander struct {
	clock Clock
}

// NewExpander creates an Expander using the given clock for "now".
func NewExpander(clock Clock) *Expander {
	return &Expander{clock: clock}
}

// Expand produces the chronologically ordered candidate slots for the given
// availability over the next horizonDays calendar days. Days and wall-clock
// times on the ranges are interpreted in the mentor's timezone; candidates
// whose start is not strictly in the future are discarded.
func (e *Expander) Expand(slots []*models.AvailabilitySlot, mentorTimezone string, horizonDays int) []CandidateSlot {
	candidates := []CandidateSlot{}
	if len(slots) == 0 || horizonDays <= 0 {
		return candidates
	}

	now := e.clock.Now()
	// Walk calendar days as they read in the mentor's timezone so the
	// weekday match happens in the zone the ranges were declared in.
	base := ConvertTimezone(now, mentorTimezone)

	for d := 0; d < horizonDays; d++ {
		day := base.AddDate(0, 0, d)
		abbrev := models.WeekdayAbbrevs[int(day.Weekday())]

		for _, slot := range slots {
			if slot == nil || slot.Day != abbrev {
				continue
			}
			candidates = append(candidates, e.expandRange(day, slot, mentorTimezone, now)...)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})

	return candidates
}

// expandRange generates the candidates for a single range on a single
// calendar day. Ranges may wrap past midnight; the window length then comes
// out negative and is normalized by adding a day's worth of minutes.
func (e *Expander) expandRange(day time.Time, slot *models.AvailabilitySlot, timezone string, now time.Time) []CandidateSlot {
	startMin, err := MinutesOfDay(slot.StartTime)
	if err != nil {
		logger.Warn("Skipping availability range with malformed start time",
			zap.String("slot_id", slot.ID),
			zap.String("start_time", slot.StartTime))
		return nil
	}

	totalMinutes, ok := rangeWindowMinutes(slot, startMin)
	if !ok {
		logger.Warn("Skipping availability range with no usable window",
			zap.String("slot_id", slot.ID))
		return nil
	}

	interval := slot.EffectiveInterval()
	out := []CandidateSlot{}

	// Inclusive bound: a 60-minute window at 30-minute granularity yields
	// slots at +0 and +30.
	for offset := 0; offset <= totalMinutes-interval; offset += interval {
		minute := startMin + offset
		slotDay := day
		if minute >= minutesPerDay {
			// Wrapped past midnight into the next calendar day
			minute -= minutesPerDay
			slotDay = day.AddDate(0, 0, 1)
		}

		wall := fmt.Sprintf("%02d:%02d", minute/60, minute%60)
		start, err := CreateAbsoluteDate(slotDay, wall, timezone)
		if err != nil {
			continue
		}
		if !start.After(now) {
			continue
		}

		out = append(out, CandidateSlot{
			Start:     start,
			End:       start.Add(time.Duration(interval) * time.Minute),
			SlotID:    slot.ID,
			Recurring: slot.Recurring,
		})
	}

	return out
}

// rangeWindowMinutes resolves the effective window length of a range in
// minutes. EndTime wins when present ("24:00" reads as 23:59); Duration is
// the fallback. A numerically earlier end time means the range crosses
// midnight.
func rangeWindowMinutes(slot *models.AvailabilitySlot, startMin int) (int, bool) {
	if slot.EndTime != "" {
		endMin, err := MinutesOfDay(slot.EndTime)
		if err == nil {
			total := endMin - startMin
			if total < 0 {
				total += minutesPerDay
			}
			return total, total > 0
		}
		// Malformed end time: fall through to the duration fallback
	}
	if slot.Duration > 0 {
		return slot.Duration, true
	}
	return 0, false
}
