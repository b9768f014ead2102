package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lingora/lingora-api/internal/models"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/metrics"
	"go.uber.org/zap"
)

const slotColumns = `
	s.id, s.mentor_id, s.day_of_week, s.start_time, s.end_time,
	s.duration_minutes, s.slot_interval, s.recurring
`

func scanSlot(scan func(dest ...any) error) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	var endTime *string
	err := scan(
		&slot.ID, &slot.MentorID, &slot.Day, &slot.StartTime, &endTime,
		&slot.Duration, &slot.Interval, &slot.Recurring,
	)
	if err != nil {
		return nil, err
	}
	if endTime != nil {
		slot.EndTime = *endTime
	}
	return &slot, nil
}

// GetSlotsByMentor fetches the declared availability ranges for one mentor
func (c *Client) GetSlotsByMentor(ctx context.Context, mentorID string) ([]*models.AvailabilitySlot, error) {
	start := time.Now()
	operation := "getSlotsByMentor"

	query := fmt.Sprintf(
		"SELECT %s FROM availability_slots s WHERE s.mentor_id = $1 ORDER BY s.day_of_week, s.start_time",
		slotColumns)

	rows, err := c.pool.Query(ctx, query, mentorID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	slots := make([]*models.AvailabilitySlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows.Scan)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating availability rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)

	return slots, nil
}

// GetAllSlots fetches every availability range, used to stitch availability
// onto the cached mentor list in one round-trip.
func (c *Client) GetAllSlots(ctx context.Context) ([]*models.AvailabilitySlot, error) {
	start := time.Now()
	operation := "getAllSlots"

	query := fmt.Sprintf(
		"SELECT %s FROM availability_slots s ORDER BY s.mentor_id, s.day_of_week, s.start_time",
		slotColumns)

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	slots := make([]*models.AvailabilitySlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows.Scan)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating availability rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(slots)))

	return slots, nil
}

// InsertSlot adds one availability range
func (c *Client) InsertSlot(ctx context.Context, slot *models.AvailabilitySlot) error {
	start := time.Now()
	operation := "insertSlot"

	query := `
		INSERT INTO availability_slots (
			id, mentor_id, day_of_week, start_time, end_time,
			duration_minutes, slot_interval, recurring
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
	`

	_, err := c.pool.Exec(ctx, query,
		slot.ID, slot.MentorID, slot.Day, slot.StartTime, slot.EndTime,
		slot.Duration, slot.Interval, slot.Recurring,
	)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to insert availability range: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("mentor_id", slot.MentorID), zap.String("slot_id", slot.ID))

	return nil
}

// UpdateSlot rewrites an existing availability range owned by the given mentor
func (c *Client) UpdateSlot(ctx context.Context, mentorID string, slot *models.AvailabilitySlot) error {
	start := time.Now()
	operation := "updateSlot"

	query := `
		UPDATE availability_slots SET
			day_of_week = $3, start_time = $4, end_time = NULLIF($5, ''),
			duration_minutes = $6, slot_interval = $7, recurring = $8
		WHERE id = $1 AND mentor_id = $2
	`

	result, err := c.pool.Exec(ctx, query,
		slot.ID, mentorID, slot.Day, slot.StartTime, slot.EndTime,
		slot.Duration, slot.Interval, slot.Recurring,
	)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update availability range: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("availability range")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("mentor_id", mentorID), zap.String("slot_id", slot.ID))

	return nil
}

// DeleteSlot removes one availability range owned by the given mentor
func (c *Client) DeleteSlot(ctx context.Context, mentorID, slotID string) error {
	start := time.Now()
	operation := "deleteSlot"

	result, err := c.pool.Exec(ctx,
		"DELETE FROM availability_slots WHERE id = $1 AND mentor_id = $2", slotID, mentorID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to delete availability range: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("availability range")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// ReplaceSlot atomically removes one range and inserts its replacements.
// Splitting a range around a removed occurrence needs both to happen or
// neither.
func (c *Client) ReplaceSlot(ctx context.Context, mentorID, removeID string, replacements []*models.AvailabilitySlot) error {
	start := time.Now()
	operation := "replaceSlot"

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	result, err := tx.Exec(ctx,
		"DELETE FROM availability_slots WHERE id = $1 AND mentor_id = $2", removeID, mentorID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to delete availability range: %w", err)
	}
	if result.RowsAffected() == 0 {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("availability range")
	}

	for _, slot := range replacements {
		_, err := tx.Exec(ctx, `
			INSERT INTO availability_slots (
				id, mentor_id, day_of_week, start_time, end_time,
				duration_minutes, slot_interval, recurring
			) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)`,
			slot.ID, slot.MentorID, slot.Day, slot.StartTime, slot.EndTime,
			slot.Duration, slot.Interval, slot.Recurring,
		)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return fmt.Errorf("failed to insert replacement range: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("mentor_id", mentorID), zap.Int("replacements", len(replacements)))

	return nil
}
