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

const menteeColumns = `
	e.id, e.name, e.email, e.timezone, e.country, e.credits,
	e.auth_token, e.created_at, e.updated_at
`

func scanMentee(scan func(dest ...any) error) (*models.Mentee, error) {
	var m models.Mentee
	var timezone, country, authToken *string
	err := scan(
		&m.ID, &m.Name, &m.Email, &timezone, &country, &m.Credits,
		&authToken, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Timezone = derefString(timezone)
	m.Country = derefString(country)
	m.AuthToken = derefString(authToken)
	return &m, nil
}

func (c *Client) getMenteeByField(ctx context.Context, operation, whereClause string, arg any) (*models.Mentee, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM mentees e WHERE %s", menteeColumns, whereClause)

	mentee, err := scanMentee(func(dest ...any) error {
		return c.pool.QueryRow(ctx, query, arg).Scan(dest...)
	})

	duration := metrics.MeasureDuration(start)

	if err == pgx.ErrNoRows {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("mentee")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query mentee: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentee, nil
}

// GetMenteeByID fetches a single mentee by ID
func (c *Client) GetMenteeByID(ctx context.Context, id string) (*models.Mentee, error) {
	return c.getMenteeByField(ctx, "getMenteeByID", "e.id = $1", id)
}

// GetMenteeByEmail fetches a single mentee by email
func (c *Client) GetMenteeByEmail(ctx context.Context, email string) (*models.Mentee, error) {
	return c.getMenteeByField(ctx, "getMenteeByEmail", "lower(e.email) = lower($1)", email)
}

// GetMenteeByLoginToken fetches a single mentee holding the given one-time
// login token
func (c *Client) GetMenteeByLoginToken(ctx context.Context, token string) (*models.Mentee, error) {
	return c.getMenteeByField(ctx, "getMenteeByLoginToken", "e.auth_token = $1", token)
}

// UpdateMenteeAuthToken stores or clears a mentee's one-time login token
func (c *Client) UpdateMenteeAuthToken(ctx context.Context, id, token string) error {
	start := time.Now()
	operation := "updateMenteeAuthToken"

	result, err := c.pool.Exec(ctx,
		"UPDATE mentees SET auth_token = NULLIF($1, ''), updated_at = NOW() WHERE id = $2", token, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update auth token: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("mentee")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// CreateMentee inserts a new mentee row
func (c *Client) CreateMentee(ctx context.Context, mentee *models.Mentee) error {
	start := time.Now()
	operation := "createMentee"

	query := `
		INSERT INTO mentees (id, name, email, timezone, country, credits, auth_token)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''))
	`

	_, err := c.pool.Exec(ctx, query,
		mentee.ID, mentee.Name, mentee.Email, mentee.Timezone,
		mentee.Country, mentee.Credits, mentee.AuthToken,
	)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to insert mentee: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("mentee_id", mentee.ID))

	return nil
}

// AdjustCredits applies a signed credit delta to a mentee's balance. The
// update refuses to take the balance negative; that case surfaces as a
// conflict so the booking flow can report insufficient credits.
func (c *Client) AdjustCredits(ctx context.Context, menteeID string, delta int) error {
	start := time.Now()
	operation := "adjustCredits"

	result, err := c.pool.Exec(ctx, `
		UPDATE mentees SET credits = credits + $1, updated_at = NOW()
		WHERE id = $2 AND credits + $1 >= 0`, delta, menteeID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to adjust credits: %w", err)
	}

	if result.RowsAffected() == 0 {
		recordMetrics(operation, "rejected", duration)
		// Either the mentee does not exist or the balance would go negative
		if _, lookupErr := c.GetMenteeByID(ctx, menteeID); lookupErr != nil {
			return lookupErr
		}
		return apperrors.ConflictError("insufficient credits")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("mentee_id", menteeID), zap.Int("delta", delta))

	return nil
}
