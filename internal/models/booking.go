package models

import (
	"time"
)

// BookingStatus is the lifecycle state of a booking. Bookings are never
// deleted, only moved between statuses.
type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "SCHEDULED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
	BookingStatusRefunded  BookingStatus = "REFUNDED"
)

// BookingType distinguishes one-off lessons from subscription lessons.
type BookingType string

const (
	BookingTypeOneTime      BookingType = "ONE_TIME"
	BookingTypeSubscription BookingType = "SUBSCRIPTION"
)

// IsValid reports whether s is a known booking status.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusScheduled, BookingStatusCompleted, BookingStatusCancelled,
		BookingStatusNoShow, BookingStatusRefunded:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status blocks its time window.
// Cancelled and refunded bookings free the slot; no-shows already happened.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusScheduled || s == BookingStatusCompleted
}

// CanTransitionTo reports whether a status change is legal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusScheduled:
		return next == BookingStatusCompleted || next == BookingStatusCancelled || next == BookingStatusNoShow
	case BookingStatusCompleted:
		return next == BookingStatusRefunded
	case BookingStatusCancelled:
		return next == BookingStatusRefunded
	case BookingStatusNoShow:
		return next == BookingStatusRefunded
	}
	return false
}

// Booking represents a confirmed lesson between a mentor and a mentee.
// StartTime and EndTime are absolute instants (stored UTC).
type Booking struct {
	ID         string        `json:"id"`
	MentorID   string        `json:"mentorId"`
	MenteeID   string        `json:"menteeId"`
	MentorName string        `json:"mentorName,omitempty"`
	MenteeName string        `json:"menteeName,omitempty"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Status     BookingStatus `json:"status"`
	TotalCost  int           `json:"totalCost"` // credits
	Type       BookingType   `json:"type"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// IsActive reports whether the booking blocks its time window.
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// DurationMinutes returns the booked lesson length in minutes.
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime).Minutes())
}

// CreateBookingRequest is the payload for booking a one-time lesson.
type CreateBookingRequest struct {
	MentorID        string    `json:"mentorId" binding:"required,uuid"`
	StartTime       time.Time `json:"startTime" binding:"required"`
	Duration        int       `json:"duration" binding:"required"`
	UseSubscription bool      `json:"useSubscription"`
}

// UpdateBookingStatusRequest is the payload for a status transition.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required,oneof=SCHEDULED COMPLETED CANCELLED NO_SHOW REFUNDED"`
}
