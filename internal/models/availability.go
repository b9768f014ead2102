package models

// Weekday abbreviations as stored on availability ranges, indexed Sun=0..Sat=6
// to match both time.Weekday and the numeric day-of-week used at the API
// boundary.
var WeekdayAbbrevs = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayIndex returns the numeric index for a weekday abbreviation, or -1 if
// the abbreviation is not one of Sun..Sat.
func WeekdayIndex(abbrev string) int {
	for i, d := range WeekdayAbbrevs {
		if d == abbrev {
			return i
		}
	}
	return -1
}

// DefaultSlotInterval is the generation granularity applied when a range does
// not specify its own interval.
const DefaultSlotInterval = 30

// AvailabilitySlot is a mentor-declared recurring weekly window. Day and the
// wall-clock times are interpreted in the mentor's timezone; expansion into
// absolute instants happens in the scheduling package.
type AvailabilitySlot struct {
	ID        string `json:"id"`
	MentorID  string `json:"mentorId"`
	Day       string `json:"day"`       // "Mon".."Sun"
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime,omitempty"`
	Duration  int    `json:"duration"` // minutes; fallback when EndTime absent
	Interval  int    `json:"interval"` // minutes; 0 means DefaultSlotInterval
	Recurring bool   `json:"recurring"`
}

// EffectiveInterval returns the slot generation granularity in minutes.
func (s *AvailabilitySlot) EffectiveInterval() int {
	if s.Interval <= 0 {
		return DefaultSlotInterval
	}
	return s.Interval
}

// AvailabilityRequest is the payload for creating or replacing an
// availability range.
type AvailabilityRequest struct {
	Day       string `json:"day" binding:"required,oneof=Sun Mon Tue Wed Thu Fri Sat"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration" binding:"omitempty,min=0"`
	Interval  int    `json:"interval" binding:"omitempty,min=5,max=240"`
	Recurring bool   `json:"recurring"`
}

// DeleteSlotRequest removes one generated slot occurrence from a wider range:
// the range identified by (dayOfWeek, rangeStartTime) is split around the
// specific slot.
type DeleteSlotRequest struct {
	DayOfWeek     int    `json:"dayOfWeek" binding:"min=0,max=6"`
	RangeStart    string `json:"rangeStartTime" binding:"required"`
	SlotStartTime string `json:"specificSlotStartTime" binding:"required"`
}
