package models

import "time"

// CalendarEventType classifies a rendered calendar event.
type CalendarEventType string

const (
	EventTypeAvailable   CalendarEventType = "available"
	EventTypeBooked      CalendarEventType = "booked"
	EventTypeCompleted   CalendarEventType = "completed"
	EventTypeCancelled   CalendarEventType = "cancelled"
	EventTypeNoShow      CalendarEventType = "no_show"
	EventTypeRescheduled CalendarEventType = "rescheduled"
)

// CalendarEvent is a derived, display-ready event. It is recomputed on every
// calendar request from current availability and booking state and is never
// persisted; its ID has no identity beyond the derivation.
type CalendarEvent struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end"`
	Type        CalendarEventType `json:"type"`
	IsRecurring bool              `json:"isRecurring,omitempty"`
	SlotID      string            `json:"slotId,omitempty"`
	BookingID   string            `json:"bookingId,omitempty"`
}

// CalendarResponse is the payload returned for a calendar view: the events
// plus the timezone they were localized to.
type CalendarResponse struct {
	Timezone string           `json:"timezone"`
	Events   []*CalendarEvent `json:"events"`
}
