package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lingora/lingora-api/internal/models"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/metrics"
	"go.uber.org/zap"
)

const mentorColumns = `
	m.id, m.slug, m.name, m.email, m.headline, m.about, m.languages,
	m.hourly_rate, m.timezone, m.country, m.avatar_url, m.is_visible,
	m.session_count, m.auth_token, m.created_at, m.updated_at
`

// MentorRow represents a mentor row from the database
type MentorRow struct {
	ID           string
	Slug         string
	Name         string
	Email        string
	Headline     *string
	About        *string
	Languages    []string
	HourlyRate   int
	Timezone     *string
	Country      *string
	AvatarURL    *string
	IsVisible    bool
	SessionCount int
	AuthToken    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r *MentorRow) scanDest() []any {
	return []any{
		&r.ID, &r.Slug, &r.Name, &r.Email, &r.Headline, &r.About, &r.Languages,
		&r.HourlyRate, &r.Timezone, &r.Country, &r.AvatarURL, &r.IsVisible,
		&r.SessionCount, &r.AuthToken, &r.CreatedAt, &r.UpdatedAt,
	}
}

// GetAllMentors fetches all mentors from the database. Availability ranges
// are loaded separately and stitched on by the repository layer.
func (c *Client) GetAllMentors(ctx context.Context) ([]*models.Mentor, error) {
	start := time.Now()
	operation := "getAllMentors"

	query := fmt.Sprintf("SELECT %s FROM mentors m ORDER BY m.session_count DESC, m.name ASC", mentorColumns)

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query mentors: %w", err)
	}
	defer rows.Close()

	mentors := make([]*models.Mentor, 0)
	for rows.Next() {
		var row MentorRow
		if err := rows.Scan(row.scanDest()...); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to scan mentor row: %w", err)
		}
		mentors = append(mentors, rowToMentor(&row))
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("error iterating mentor rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(mentors)))

	return mentors, nil
}

// getMentorByField is a helper that fetches a mentor by a specific field condition
func (c *Client) getMentorByField(ctx context.Context, operation, whereClause string, arg any) (*models.Mentor, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM mentors m WHERE %s", mentorColumns, whereClause)

	var row MentorRow
	err := c.pool.QueryRow(ctx, query, arg).Scan(row.scanDest()...)

	duration := metrics.MeasureDuration(start)

	if err == pgx.ErrNoRows {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("mentor")
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query mentor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return rowToMentor(&row), nil
}

// GetMentorByID fetches a single mentor by ID
func (c *Client) GetMentorByID(ctx context.Context, id string) (*models.Mentor, error) {
	return c.getMentorByField(ctx, "getMentorByID", "m.id = $1", id)
}

// GetMentorBySlug fetches a single mentor by slug
func (c *Client) GetMentorBySlug(ctx context.Context, slug string) (*models.Mentor, error) {
	return c.getMentorByField(ctx, "getMentorBySlug", "m.slug = $1", slug)
}

// GetMentorByEmail fetches a single mentor by email
func (c *Client) GetMentorByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	return c.getMentorByField(ctx, "getMentorByEmail", "lower(m.email) = lower($1)", email)
}

// GetMentorByLoginToken fetches a single mentor holding the given one-time
// login token
func (c *Client) GetMentorByLoginToken(ctx context.Context, token string) (*models.Mentor, error) {
	return c.getMentorByField(ctx, "getMentorByLoginToken", "m.auth_token = $1", token)
}

// CreateMentor inserts a new mentor row
func (c *Client) CreateMentor(ctx context.Context, mentor *models.Mentor) error {
	start := time.Now()
	operation := "createMentor"

	query := `
		INSERT INTO mentors (
			id, slug, name, email, headline, about, languages, hourly_rate,
			timezone, country, avatar_url, is_visible, auth_token
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := c.pool.Exec(ctx, query,
		mentor.ID, mentor.Slug, mentor.Name, mentor.Email, mentor.Headline,
		mentor.About, mentor.Languages, mentor.HourlyRate, mentor.Timezone,
		mentor.Country, mentor.AvatarURL, mentor.IsVisible, mentor.AuthToken,
	)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to insert mentor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("mentor_id", mentor.ID))

	return nil
}

// UpdateMentorProfile applies the non-zero fields of a profile update
func (c *Client) UpdateMentorProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) error {
	start := time.Now()
	operation := "updateMentorProfile"

	setClauses := make([]string, 0, 8)
	args := make([]any, 0, 8)
	argIndex := 1

	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if req.Name != "" {
		add("name", req.Name)
	}
	if req.Headline != "" {
		add("headline", req.Headline)
	}
	if req.About != "" {
		add("about", req.About)
	}
	if len(req.Languages) > 0 {
		add("languages", req.Languages)
	}
	if req.HourlyRate > 0 {
		add("hourly_rate", req.HourlyRate)
	}
	if req.Timezone != "" {
		add("timezone", req.Timezone)
	}
	if req.Country != "" {
		add("country", strings.ToUpper(req.Country))
	}

	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE mentors SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(setClauses, ", "),
		argIndex,
	)

	result, err := c.pool.Exec(ctx, query, args...)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update mentor: %w", err)
	}

	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("mentor")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("mentor_id", id))

	return nil
}

// UpdateMentorAvatar updates a mentor's profile image URL
func (c *Client) UpdateMentorAvatar(ctx context.Context, id, avatarURL string) error {
	start := time.Now()
	operation := "updateMentorAvatar"

	query := "UPDATE mentors SET avatar_url = $1, updated_at = NOW() WHERE id = $2"
	result, err := c.pool.Exec(ctx, query, avatarURL, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update mentor avatar: %w", err)
	}

	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("mentor")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("mentor_id", id))

	return nil
}

// UpdateMentorAuthToken rotates a mentor's login token
func (c *Client) UpdateMentorAuthToken(ctx context.Context, id, token string) error {
	start := time.Now()
	operation := "updateMentorAuthToken"

	result, err := c.pool.Exec(ctx,
		"UPDATE mentors SET auth_token = $1, updated_at = NOW() WHERE id = $2", token, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update auth token: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("mentor")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// IncrementSessionCount bumps the completed-session counter
func (c *Client) IncrementSessionCount(ctx context.Context, id string) error {
	start := time.Now()
	operation := "incrementSessionCount"

	result, err := c.pool.Exec(ctx,
		"UPDATE mentors SET session_count = session_count + 1, updated_at = NOW() WHERE id = $1", id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to increment session count: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("mentor")
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// rowToMentor converts a database row to a Mentor model
func rowToMentor(row *MentorRow) *models.Mentor {
	languages := row.Languages
	if languages == nil {
		languages = []string{}
	}

	return &models.Mentor{
		ID:           row.ID,
		Slug:         row.Slug,
		Name:         row.Name,
		Email:        row.Email,
		Headline:     derefString(row.Headline),
		About:        derefString(row.About),
		Languages:    languages,
		HourlyRate:   row.HourlyRate,
		Timezone:     derefString(row.Timezone),
		Country:      derefString(row.Country),
		AvatarURL:    derefString(row.AvatarURL),
		IsVisible:    row.IsVisible,
		SessionCount: row.SessionCount,
		AuthToken:    derefString(row.AuthToken),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// derefString safely dereferences a string pointer
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
