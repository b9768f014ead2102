package scheduling_test

import (
	"testing"
	"time"

	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/scheduling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-06T00:00:00Z is a Tuesday; 09:00 the same day in Tokyo. A 14-day
// horizon from here covers exactly two Mondays, Jan 12 and Jan 19.
var expanderNow = mustParse("2026-01-06T00:00:00Z")

func mondayMorningSlot() *models.AvailabilitySlot {
	return &models.AvailabilitySlot{
		ID:        "slot-1",
		Day:       "Mon",
		StartTime: "09:00",
		EndTime:   "10:00",
		Interval:  30,
		Recurring: true,
	}
}

func TestExpand_WeeklySlotOverHorizon(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})

	got := exp.Expand([]*models.AvailabilitySlot{mondayMorningSlot()}, "Asia/Tokyo", 14)

	// Two Mondays, two 30-minute candidates each
	require.Len(t, got, 4)
	assert.Equal(t, mustParse("2026-01-12T00:00:00Z"), got[0].Start.UTC()) // 09:00 JST
	assert.Equal(t, mustParse("2026-01-12T00:30:00Z"), got[1].Start.UTC()) // 09:30 JST
	assert.Equal(t, mustParse("2026-01-19T00:00:00Z"), got[2].Start.UTC())
	assert.Equal(t, mustParse("2026-01-19T00:30:00Z"), got[3].Start.UTC())

	for _, c := range got {
		assert.Equal(t, 30*time.Minute, c.End.Sub(c.Start))
		assert.Equal(t, "slot-1", c.SlotID)
		assert.True(t, c.Recurring)
	}
}

func TestExpand_ChronologicalAcrossSlots(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})
	slots := []*models.AvailabilitySlot{
		{ID: "b", Day: "Mon", StartTime: "15:00", EndTime: "16:00", Interval: 30},
		{ID: "a", Day: "Mon", StartTime: "09:00", EndTime: "10:00", Interval: 30},
	}

	got := exp.Expand(slots, "Asia/Tokyo", 7)

	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Start.Before(got[i].Start))
	}
	assert.Equal(t, "a", got[0].SlotID)
	assert.Equal(t, "b", got[2].SlotID)
}

func TestExpand_CustomInterval(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})
	slots := []*models.AvailabilitySlot{
		{ID: "s", Day: "Mon", StartTime: "09:00", EndTime: "10:00", Interval: 20},
	}

	got := exp.Expand(slots, "Asia/Tokyo", 7)

	// 60-minute window at 20-minute granularity: 09:00, 09:20, 09:40
	require.Len(t, got, 3)
	assert.Equal(t, mustParse("2026-01-12T00:20:00Z"), got[1].Start.UTC())
	assert.Equal(t, 20*time.Minute, got[0].End.Sub(got[0].Start))
}

func TestExpand_DefaultIntervalWhenUnset(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})
	slots := []*models.AvailabilitySlot{
		{ID: "s", Day: "Mon", StartTime: "09:00", EndTime: "10:00"},
	}

	got := exp.Expand(slots, "Asia/Tokyo", 7)

	require.Len(t, got, 2)
}

func TestExpand_DurationFallbackWhenEndTimeMissing(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})
	slots := []*models.AvailabilitySlot{
		{ID: "s", Day: "Mon", StartTime: "09:00", Duration: 90, Interval: 30},
	}

	got := exp.Expand(slots, "Asia/Tokyo", 7)

	require.Len(t, got, 3)
	assert.Equal(t, mustParse("2026-01-12T01:00:00Z"), got[2].Start.UTC()) // 10:00 JST
}

func TestExpand_MidnightWrap(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})
	slots := []*models.AvailabilitySlot{
		{ID: "late", Day: "Fri", StartTime: "23:00", EndTime: "00:30", Interval: 30},
	}

	got := exp.Expand(slots, "Asia/Tokyo", 7)

	// Friday Jan 9 in Tokyo: 23:00, 23:30, then 00:00 Saturday
	require.Len(t, got, 3)
	assert.Equal(t, mustParse("2026-01-09T14:00:00Z"), got[0].Start.UTC()) // Fri 23:00 JST
	assert.Equal(t, mustParse("2026-01-09T14:30:00Z"), got[1].Start.UTC()) // Fri 23:30 JST
	assert.Equal(t, mustParse("2026-01-09T15:00:00Z"), got[2].Start.UTC()) // Sat 00:00 JST

	sat := got[2].Start.In(time.FixedZone("JST", 9*3600))
	assert.Equal(t, 10, sat.Day())
	assert.Equal(t, 0, sat.Hour())
}

func TestExpand_EndOfDayLiteral(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})
	slots := []*models.AvailabilitySlot{
		{ID: "s", Day: "Mon", StartTime: "23:00", EndTime: "24:00", Interval: 30},
	}

	got := exp.Expand(slots, "Asia/Tokyo", 7)

	// The 24:00 literal reads as 23:59, leaving a 59-minute window: one slot
	require.Len(t, got, 1)
	assert.Equal(t, mustParse("2026-01-12T14:00:00Z"), got[0].Start.UTC())
}

func TestExpand_DiscardsPastAndCurrentStarts(t *testing.T) {
	// Now is 09:30 JST on Monday Jan 12, mid-window
	now := mustParse("2026-01-12T00:30:00Z")
	exp := scheduling.NewExpander(fakeClock{now: now})
	slots := []*models.AvailabilitySlot{
		{ID: "s", Day: "Mon", StartTime: "09:00", EndTime: "10:30", Interval: 30},
	}

	got := exp.Expand(slots, "Asia/Tokyo", 14)

	// 09:00 is past, 09:30 is not strictly future; 10:00 survives, plus the
	// full set the following Monday
	require.Len(t, got, 4)
	assert.Equal(t, mustParse("2026-01-12T01:00:00Z"), got[0].Start.UTC())
	assert.Equal(t, mustParse("2026-01-19T00:00:00Z"), got[1].Start.UTC())
}

func TestExpand_SkipsMalformedRanges(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})
	slots := []*models.AvailabilitySlot{
		{ID: "bad-start", Day: "Mon", StartTime: "9am", EndTime: "10:00", Interval: 30},
		{ID: "no-window", Day: "Mon", StartTime: "09:00"},
		{ID: "ok", Day: "Mon", StartTime: "11:00", EndTime: "12:00", Interval: 30},
		nil,
	}

	got := exp.Expand(slots, "Asia/Tokyo", 7)

	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, "ok", c.SlotID)
	}
}

func TestExpand_EmptyInputs(t *testing.T) {
	exp := scheduling.NewExpander(fakeClock{now: expanderNow})

	assert.Empty(t, exp.Expand(nil, "Asia/Tokyo", 14))
	assert.Empty(t, exp.Expand([]*models.AvailabilitySlot{mondayMorningSlot()}, "Asia/Tokyo", 0))
}

func TestExpand_WeekdayMatchedInMentorTimezone(t *testing.T) {
	// 23:30 UTC Sunday Jan 11 is already Monday 08:30 in Tokyo; the first
	// horizon day must match Monday slots even though UTC still reads Sunday.
	now := mustParse("2026-01-11T23:30:00Z")
	exp := scheduling.NewExpander(fakeClock{now: now})

	got := exp.Expand([]*models.AvailabilitySlot{mondayMorningSlot()}, "Asia/Tokyo", 1)

	require.Len(t, got, 2)
	assert.Equal(t, mustParse("2026-01-12T00:00:00Z"), got[0].Start.UTC())
}
