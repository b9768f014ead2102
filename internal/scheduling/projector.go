package scheduling

import (
	"fmt"
	"time"

	"github.com/lingora/lingora-api/internal/models"
)

// EventIndexKey addresses one calendar cell in the display timezone.
type EventIndexKey struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// Calendar is a projected, viewer-localized event set with an index for O(1)
// per-cell lookup. It is derived state: rebuild it whenever the underlying
// events or the display timezone change, never cache it across timezone
// switches.
type Calendar struct {
	Timezone string
	Events   []*models.CalendarEvent

	index map[EventIndexKey][]*models.CalendarEvent
}

// EventsAt returns the events whose start falls in the given display-timezone
// cell.
func (c *Calendar) EventsAt(key EventIndexKey) []*models.CalendarEvent {
	return c.index[key]
}

// ViewerRole selects which side of a booking the calendar is rendered for;
// the counterparty's name becomes the event title.
type ViewerRole string

const (
	ViewerMentor ViewerRole = "mentor"
	ViewerMentee ViewerRole = "mentee"
)

// bookingEventTypes maps booking statuses to calendar event types. A refund
// frees the slot the same way a cancellation does.
var bookingEventTypes = map[models.BookingStatus]models.CalendarEventType{
	models.BookingStatusScheduled: models.EventTypeBooked,
	models.BookingStatusCompleted: models.EventTypeCompleted,
	models.BookingStatusCancelled: models.EventTypeCancelled,
	models.BookingStatusNoShow:    models.EventTypeNoShow,
	models.BookingStatusRefunded:  models.EventTypeCancelled,
}

// BuildCalendar projects available slots and bookings into display-ready
// events localized to the viewer's timezone. Every rendered position is
// computed by projecting the event's absolute instants through the display
// zone; the mentor's or mentee's own timezone never leaks in.
func BuildCalendar(available []CandidateSlot, bookings []*models.Booking, displayTimezone string, viewer ViewerRole) *Calendar {
	events := make([]*models.CalendarEvent, 0, len(available)+len(bookings))

	for _, b := range bookings {
		if b == nil {
			continue
		}
		eventType, ok := bookingEventTypes[b.Status]
		if !ok {
			continue
		}

		title := b.MenteeName
		if viewer == ViewerMentee {
			title = b.MentorName
		}

		events = append(events, &models.CalendarEvent{
			ID:        "booking-" + b.ID,
			Title:     title,
			Start:     b.StartTime,
			End:       b.EndTime,
			Type:      eventType,
			BookingID: b.ID,
		})
	}

	for _, slot := range available {
		events = append(events, &models.CalendarEvent{
			ID:          fmt.Sprintf("slot-%s-%d", slot.SlotID, slot.Start.Unix()),
			Title:       "Available",
			Start:       slot.Start,
			End:         slot.End,
			Type:        models.EventTypeAvailable,
			IsRecurring: slot.Recurring,
			SlotID:      slot.SlotID,
		})
	}

	cal := &Calendar{
		Timezone: displayTimezone,
		Events:   events,
		index:    make(map[EventIndexKey][]*models.CalendarEvent, len(events)),
	}

	// Single pass: index each event by its start cell in the display zone so
	// the rendering surface avoids O(n*cells) rescans.
	for _, ev := range events {
		local := ConvertTimezone(ev.Start, displayTimezone)
		key := EventIndexKey{
			Year:   local.Year(),
			Month:  local.Month(),
			Day:    local.Day(),
			Hour:   local.Hour(),
			Minute: local.Minute(),
		}
		cal.index[key] = append(cal.index[key], ev)
	}

	return cal
}
