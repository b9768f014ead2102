package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lingora/lingora-api/internal/models"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/metrics"
	"go.uber.org/zap"
)

const bookingColumns = `
	b.id, b.mentor_id, b.mentee_id, m.name, e.name,
	b.start_time, b.end_time, b.status, b.total_cost, b.booking_type,
	b.created_at, b.updated_at
`

const bookingJoins = `
	FROM bookings b
	JOIN mentors m ON m.id = b.mentor_id
	JOIN mentees e ON e.id = b.mentee_id
`

func scanBooking(scan func(dest ...any) error) (*models.Booking, error) {
	var b models.Booking
	var status, bookingType string
	err := scan(
		&b.ID, &b.MentorID, &b.MenteeID, &b.MentorName, &b.MenteeName,
		&b.StartTime, &b.EndTime, &status, &b.TotalCost, &bookingType,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = models.BookingStatus(status)
	b.Type = models.BookingType(bookingType)
	return &b, nil
}

// CreateBooking inserts a new booking row
func (c *Client) CreateBooking(ctx context.Context, booking *models.Booking) error {
	start := time.Now()
	operation := "createBooking"

	query := `
		INSERT INTO bookings (
			id, mentor_id, mentee_id, start_time, end_time,
			status, total_cost, booking_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := c.pool.Exec(ctx, query,
		booking.ID, booking.MentorID, booking.MenteeID,
		booking.StartTime.UTC(), booking.EndTime.UTC(),
		string(booking.Status), booking.TotalCost, string(booking.Type),
	)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("booking_id", booking.ID), zap.String("mentor_id", booking.MentorID))

	return nil
}

// GetBookingByID fetches a single booking with participant names
func (c *Client) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	start := time.Now()
	operation := "getBookingByID"

	query := fmt.Sprintf("SELECT %s %s WHERE b.id = $1", bookingColumns, bookingJoins)

	booking, err := scanBooking(func(dest ...any) error {
		return c.pool.QueryRow(ctx, query, id).Scan(dest...)
	})

	duration := metrics.MeasureDuration(start)

	if err == pgx.ErrNoRows {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("booking")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return booking, nil
}

// queryBookings runs a booking list query and scans the result set
func (c *Client) queryBookings(ctx context.Context, operation, query string, args ...any) ([]*models.Booking, error) {
	start := time.Now()

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)

	return bookings, nil
}

// GetBookingsByMentor fetches all bookings for a mentor ending after the
// given instant. Pass the zero time for the full history.
func (c *Client) GetBookingsByMentor(ctx context.Context, mentorID string, endingAfter time.Time) ([]*models.Booking, error) {
	query := fmt.Sprintf(
		"SELECT %s %s WHERE b.mentor_id = $1 AND b.end_time > $2 ORDER BY b.start_time",
		bookingColumns, bookingJoins)
	return c.queryBookings(ctx, "getBookingsByMentor", query, mentorID, endingAfter.UTC())
}

// GetBookingsByMentee fetches all bookings for a mentee ending after the
// given instant. Pass the zero time for the full history.
func (c *Client) GetBookingsByMentee(ctx context.Context, menteeID string, endingAfter time.Time) ([]*models.Booking, error) {
	query := fmt.Sprintf(
		"SELECT %s %s WHERE b.mentee_id = $1 AND b.end_time > $2 ORDER BY b.start_time",
		bookingColumns, bookingJoins)
	return c.queryBookings(ctx, "getBookingsByMentee", query, menteeID, endingAfter.UTC())
}

// UpdateBookingStatus moves a booking to a new lifecycle status
func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	start := time.Now()
	operation := "updateBookingStatus"

	result, err := c.pool.Exec(ctx,
		"UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2", string(status), id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("booking")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("booking_id", id), zap.String("status", string(status)))

	return nil
}
