package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lingora/lingora-api/config"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/repository"
	"github.com/lingora/lingora-api/internal/scheduling"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/lingora/lingora-api/pkg/httpclient"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/metrics"
	"github.com/lingora/lingora-api/pkg/trigger"
	"go.uber.org/zap"
)

// AvailabilityService manages mentors' declared weekly availability ranges
type AvailabilityService struct {
	slots      repository.AvailabilityStore
	mentorRepo repository.MentorRepositoryInterface
	config     *config.Config
	httpClient httpclient.Client
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(slots repository.AvailabilityStore, mentorRepo repository.MentorRepositoryInterface, cfg *config.Config, httpClient httpclient.Client) *AvailabilityService {
	return &AvailabilityService{
		slots:      slots,
		mentorRepo: mentorRepo,
		config:     cfg,
		httpClient: httpClient,
	}
}

// GetAvailability returns a mentor's declared ranges
func (s *AvailabilityService) GetAvailability(ctx context.Context, mentorID string) ([]*models.AvailabilitySlot, error) {
	return s.slots.GetSlotsByMentor(ctx, mentorID)
}

// validateRangeWindow checks a range request's time window and records the
// invalid-input metric under the given operation label
func validateRangeWindow(operation string, req *models.AvailabilityRequest) error {
	if _, err := scheduling.MinutesOfDay(req.StartTime); err != nil {
		metrics.AvailabilityUpdates.WithLabelValues(operation, "invalid").Inc()
		return apperrors.InvalidInputError("startTime", err.Error())
	}
	if req.EndTime != "" {
		if _, err := scheduling.MinutesOfDay(req.EndTime); err != nil {
			metrics.AvailabilityUpdates.WithLabelValues(operation, "invalid").Inc()
			return apperrors.InvalidInputError("endTime", err.Error())
		}
	}
	if req.EndTime == "" && req.Duration <= 0 {
		metrics.AvailabilityUpdates.WithLabelValues(operation, "invalid").Inc()
		return apperrors.InvalidInputError("endTime", "either endTime or duration is required")
	}
	return nil
}

// AddRange validates and stores a new availability range
func (s *AvailabilityService) AddRange(ctx context.Context, mentorID string, req *models.AvailabilityRequest) (*models.AvailabilitySlot, error) {
	if err := validateRangeWindow("add", req); err != nil {
		return nil, err
	}

	slot := &models.AvailabilitySlot{
		ID:        uuid.NewString(),
		MentorID:  mentorID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Duration:  req.Duration,
		Interval:  req.Interval,
		Recurring: req.Recurring,
	}

	if err := s.slots.InsertSlot(ctx, slot); err != nil {
		metrics.AvailabilityUpdates.WithLabelValues("add", "error").Inc()
		return nil, err
	}

	metrics.AvailabilityUpdates.WithLabelValues("add", "success").Inc()
	s.afterMutation(mentorID)

	logger.Info("Availability range added",
		zap.String("mentor_id", mentorID),
		zap.String("slot_id", slot.ID),
		zap.String("day", slot.Day))

	return slot, nil
}

// UpdateRange validates and rewrites an existing availability range in place,
// keeping its identity so future bookings land against the same range.
func (s *AvailabilityService) UpdateRange(ctx context.Context, mentorID, slotID string, req *models.AvailabilityRequest) (*models.AvailabilitySlot, error) {
	if err := validateRangeWindow("update", req); err != nil {
		return nil, err
	}

	slot := &models.AvailabilitySlot{
		ID:        slotID,
		MentorID:  mentorID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Duration:  req.Duration,
		Interval:  req.Interval,
		Recurring: req.Recurring,
	}

	if err := s.slots.UpdateSlot(ctx, mentorID, slot); err != nil {
		metrics.AvailabilityUpdates.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	metrics.AvailabilityUpdates.WithLabelValues("update", "success").Inc()
	s.afterMutation(mentorID)

	logger.Info("Availability range updated",
		zap.String("mentor_id", mentorID),
		zap.String("slot_id", slotID),
		zap.String("day", slot.Day))

	return slot, nil
}

// DeleteRange removes a whole availability range
func (s *AvailabilityService) DeleteRange(ctx context.Context, mentorID, slotID string) error {
	if err := s.slots.DeleteSlot(ctx, mentorID, slotID); err != nil {
		metrics.AvailabilityUpdates.WithLabelValues("delete", "error").Inc()
		return err
	}

	metrics.AvailabilityUpdates.WithLabelValues("delete", "success").Inc()
	s.afterMutation(mentorID)

	logger.Info("Availability range deleted",
		zap.String("mentor_id", mentorID),
		zap.String("slot_id", slotID))

	return nil
}

// DeleteSlotOccurrence removes one generated slot from a wider range by
// splitting the range around it. The range shrinks or splits in two; the
// other occurrences survive.
func (s *AvailabilityService) DeleteSlotOccurrence(ctx context.Context, mentorID string, req *models.DeleteSlotRequest) error {
	if req.DayOfWeek < 0 || req.DayOfWeek >= len(models.WeekdayAbbrevs) {
		return apperrors.InvalidInputError("dayOfWeek", "must be between 0 and 6")
	}
	day := models.WeekdayAbbrevs[req.DayOfWeek]

	ranges, err := s.slots.GetSlotsByMentor(ctx, mentorID)
	if err != nil {
		return err
	}

	var target *models.AvailabilitySlot
	for _, r := range ranges {
		if r.Day == day && r.StartTime == req.RangeStart {
			target = r
			break
		}
	}
	if target == nil {
		return apperrors.NotFoundError("availability range")
	}

	startMin, err := scheduling.MinutesOfDay(target.StartTime)
	if err != nil {
		return apperrors.InvalidInputError("rangeStartTime", err.Error())
	}
	endMin, err := rangeEnd(target, startMin)
	if err != nil {
		return err
	}

	slotMin, err := scheduling.MinutesOfDay(req.SlotStartTime)
	if err != nil {
		return apperrors.InvalidInputError("specificSlotStartTime", err.Error())
	}
	// A range crossing midnight puts its tail occurrences on the next
	// calendar day; normalize them onto the same axis as the range start.
	if slotMin < startMin {
		slotMin += 24 * 60
	}

	interval := target.EffectiveInterval()
	if slotMin < startMin || slotMin+interval > endMin || (slotMin-startMin)%interval != 0 {
		return apperrors.InvalidInputError("specificSlotStartTime", "does not match a generated slot in the range")
	}

	replacements := make([]*models.AvailabilitySlot, 0, 2)
	if slotMin > startMin {
		replacements = append(replacements, splitRange(target, startMin, slotMin))
	}
	if slotMin+interval < endMin {
		replacements = append(replacements, splitRange(target, slotMin+interval, endMin))
	}

	if err := s.slots.ReplaceSlot(ctx, mentorID, target.ID, replacements); err != nil {
		metrics.AvailabilityUpdates.WithLabelValues("split", "error").Inc()
		return err
	}

	metrics.AvailabilityUpdates.WithLabelValues("split", "success").Inc()
	s.afterMutation(mentorID)

	logger.Info("Availability slot occurrence removed",
		zap.String("mentor_id", mentorID),
		zap.String("slot_id", target.ID),
		zap.Int("replacements", len(replacements)))

	return nil
}

// afterMutation refreshes the cached mentor and fires the notification
// trigger
func (s *AvailabilityService) afterMutation(mentorID string) {
	s.mentorRepo.RefreshMentor(mentorID)
	trigger.CallAsync(s.config.EventTriggers.AvailabilityUpdatedURL, mentorID, s.httpClient)
}

// rangeEnd resolves a range's end on the minutes-past-range-start axis, so a
// midnight-crossing range comes out larger than 24h rather than negative.
func rangeEnd(slot *models.AvailabilitySlot, startMin int) (int, error) {
	if slot.EndTime != "" {
		endMin, err := scheduling.MinutesOfDay(slot.EndTime)
		if err != nil {
			return 0, apperrors.InvalidInputError("endTime", err.Error())
		}
		if endMin <= startMin {
			endMin += 24 * 60
		}
		return endMin, nil
	}
	if slot.Duration > 0 {
		return startMin + slot.Duration, nil
	}
	return 0, apperrors.InvalidInputError("endTime", "range has no usable window")
}

// splitRange builds a replacement range covering [fromMin, toMin) with the
// original range's interval and recurrence. A piece that starts past
// midnight belongs to the following weekday.
func splitRange(original *models.AvailabilitySlot, fromMin, toMin int) *models.AvailabilitySlot {
	day := original.Day
	if fromMin >= 24*60 {
		if idx := models.WeekdayIndex(original.Day); idx >= 0 {
			day = models.WeekdayAbbrevs[(idx+1)%7]
		}
	}

	return &models.AvailabilitySlot{
		ID:        uuid.NewString(),
		MentorID:  original.MentorID,
		Day:       day,
		StartTime: minutesToWall(fromMin),
		EndTime:   minutesToWall(toMin),
		Interval:  original.Interval,
		Recurring: original.Recurring,
	}
}

// minutesToWall formats minutes-of-day back to "HH:MM", wrapping past
// midnight
func minutesToWall(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
