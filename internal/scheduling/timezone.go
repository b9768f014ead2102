package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lingora/lingora-api/pkg/logger"
	"go.uber.org/zap"
)

const minutesPerDay = 24 * 60

// ParseWallClock parses an "HH:MM" wall-clock string. The literal "24:00" is
// accepted and treated as end-of-day 23:59 so range arithmetic stays within a
// single day.
func ParseWallClock(s string) (hour, minute int, err error) {
	if s == "24:00" {
		return 23, 59, nil
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q: expected HH:MM", s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q: %w", s, err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("wall-clock time %q out of range", s)
	}

	return hour, minute, nil
}

// MinutesOfDay returns the minute-of-day for an "HH:MM" string ("24:00" maps
// to 1439).
func MinutesOfDay(s string) (int, error) {
	h, m, err := ParseWallClock(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// ConvertTimezone re-expresses an instant in the named timezone so that its
// wall-clock fields (Weekday, Hour, Minute, ...) read as they would in that
// zone. The instant itself is unchanged; this exists for wall-clock reads
// only. An unrecognized timezone is logged as a warning and the instant is
// returned unmodified (non-fatal degrade).
func ConvertTimezone(instant time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("Unknown timezone, reading wall clock in original zone",
			zap.String("timezone", timezone),
			zap.Error(err))
		return instant
	}
	return instant.In(loc)
}

// CreateAbsoluteDate returns the absolute instant at which the given
// wall-clock time occurs in the named timezone, on the calendar day carried
// by baseDate (its year/month/day as they stand; time-of-day is ignored).
// The zone's offset rules for that date apply, so daylight-saving
// transitions and non-integer offsets resolve correctly. An unrecognized
// timezone is logged and the wall-clock time is interpreted in the system's
// local zone instead; a malformed time string is an error.
func CreateAbsoluteDate(baseDate time.Time, wallTime, timezone string) (time.Time, error) {
	h, m, err := ParseWallClock(wallTime)
	if err != nil {
		return time.Time{}, err
	}

	loc, lerr := time.LoadLocation(timezone)
	if lerr != nil {
		logger.Error("Unknown timezone, falling back to system local zone",
			zap.String("timezone", timezone),
			zap.Error(lerr))
		loc = time.Local
	}

	return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), h, m, 0, 0, loc), nil
}

// FormatInTimezone formats an instant's wall-clock reading in the named
// timezone using the given layout.
func FormatInTimezone(instant time.Time, timezone, layout string) string {
	return ConvertTimezone(instant, timezone).Format(layout)
}
