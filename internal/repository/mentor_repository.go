package repository

import (
	"context"

	"github.com/lingora/lingora-api/internal/models"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/lingora/lingora-api/pkg/logger"
	"go.uber.org/zap"
)

// MentorCacheInterface is the cache surface the repository depends on
type MentorCacheInterface interface {
	Get() ([]*models.Mentor, error)
	GetByID(id string) (*models.Mentor, error)
	GetBySlug(slug string) (*models.Mentor, error)
	ForceRefresh() ([]*models.Mentor, error)
	UpdateSingleMentor(id string) error
	Clear()
}

// MentorRepositoryInterface defines the interface for mentor data access operations.
type MentorRepositoryInterface interface {
	GetAll(ctx context.Context, opts models.FilterOptions) ([]*models.Mentor, error)
	GetByID(ctx context.Context, id string, opts models.FilterOptions) (*models.Mentor, error)
	GetBySlug(ctx context.Context, slug string, opts models.FilterOptions) (*models.Mentor, error)
	GetByEmail(ctx context.Context, email string) (*models.Mentor, error)
	GetByLoginToken(ctx context.Context, token string) (*models.Mentor, error)
	Create(ctx context.Context, mentor *models.Mentor) error
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	UpdateAuthToken(ctx context.Context, id, token string) error
	IncrementSessionCount(ctx context.Context, id string) error
	RefreshMentor(id string)
	InvalidateCache()
}

// MentorRepository handles mentor data access. Reads go through the cache
// when one is attached; writes go to the store and refresh the touched cache
// entry.
type MentorRepository struct {
	store       MentorStore
	dataSource  *MentorDataSource
	mentorCache MentorCacheInterface // nil when the cache is disabled
}

// NewMentorRepository creates a new mentor repository
func NewMentorRepository(store MentorStore, dataSource *MentorDataSource, mentorCache MentorCacheInterface) MentorRepositoryInterface {
	return &MentorRepository{
		store:       store,
		dataSource:  dataSource,
		mentorCache: mentorCache,
	}
}

// GetAll retrieves all mentors with optional filtering
func (r *MentorRepository) GetAll(ctx context.Context, opts models.FilterOptions) ([]*models.Mentor, error) {
	var mentors []*models.Mentor
	var err error

	switch {
	case r.mentorCache == nil:
		mentors, err = r.dataSource.GetAllMentors(ctx)
	case opts.ForceRefresh:
		mentors, err = r.mentorCache.ForceRefresh()
	default:
		mentors, err = r.mentorCache.Get()
	}

	if err != nil {
		return nil, err
	}

	return r.applyFilters(mentors, opts), nil
}

// GetByID retrieves a mentor by ID
func (r *MentorRepository) GetByID(ctx context.Context, id string, opts models.FilterOptions) (*models.Mentor, error) {
	var mentor *models.Mentor
	var err error

	if r.mentorCache == nil {
		mentor, err = r.dataSource.GetMentorByID(ctx, id)
	} else {
		mentor, err = r.mentorCache.GetByID(id)
	}

	if err != nil {
		return nil, apperrors.NotFoundError("mentor")
	}

	return r.filterOne(mentor, opts)
}

// GetBySlug retrieves a mentor by slug
func (r *MentorRepository) GetBySlug(ctx context.Context, slug string, opts models.FilterOptions) (*models.Mentor, error) {
	if r.mentorCache != nil {
		mentor, err := r.mentorCache.GetBySlug(slug)
		if err != nil {
			return nil, apperrors.NotFoundError("mentor")
		}
		return r.filterOne(mentor, opts)
	}

	mentor, err := r.store.GetMentorBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	// Attach availability the same way the cache path would carry it
	mentor, err = r.dataSource.GetMentorByID(ctx, mentor.ID)
	if err != nil {
		return nil, err
	}
	return r.filterOne(mentor, opts)
}

// GetByEmail retrieves a mentor by email, bypassing the cache. This is the
// login path, so the secure fields stay intact.
func (r *MentorRepository) GetByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	return r.store.GetMentorByEmail(ctx, email)
}

// GetByLoginToken retrieves a mentor by one-time login token, bypassing the
// cache
func (r *MentorRepository) GetByLoginToken(ctx context.Context, token string) (*models.Mentor, error) {
	return r.store.GetMentorByLoginToken(ctx, token)
}

// Create inserts a new mentor and seeds the cache entry
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	if err := r.store.CreateMentor(ctx, mentor); err != nil {
		return err
	}
	r.RefreshMentor(mentor.ID)
	return nil
}

// UpdateProfile applies a profile update and refreshes the cache entry
func (r *MentorRepository) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) error {
	if err := r.store.UpdateMentorProfile(ctx, id, req); err != nil {
		return err
	}
	r.RefreshMentor(id)
	return nil
}

// UpdateAvatar updates a mentor's profile image and refreshes the cache entry
func (r *MentorRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	if err := r.store.UpdateMentorAvatar(ctx, id, avatarURL); err != nil {
		return err
	}
	r.RefreshMentor(id)
	return nil
}

// UpdateAuthToken rotates a mentor's login token
func (r *MentorRepository) UpdateAuthToken(ctx context.Context, id, token string) error {
	if err := r.store.UpdateMentorAuthToken(ctx, id, token); err != nil {
		return err
	}
	r.RefreshMentor(id)
	return nil
}

// IncrementSessionCount bumps the completed-session counter
func (r *MentorRepository) IncrementSessionCount(ctx context.Context, id string) error {
	if err := r.store.IncrementSessionCount(ctx, id); err != nil {
		return err
	}
	r.RefreshMentor(id)
	return nil
}

// RefreshMentor refreshes one cache entry from the data source, best effort
func (r *MentorRepository) RefreshMentor(id string) {
	if r.mentorCache == nil {
		return
	}
	if err := r.mentorCache.UpdateSingleMentor(id); err != nil {
		logger.Warn("Failed to refresh mentor cache entry",
			zap.String("mentor_id", id), zap.Error(err))
	}
}

// InvalidateCache forces cache invalidation
func (r *MentorRepository) InvalidateCache() {
	if r.mentorCache != nil {
		r.mentorCache.Clear()
	}
}

// applyFilters applies filtering options to a mentor list
func (r *MentorRepository) applyFilters(mentors []*models.Mentor, opts models.FilterOptions) []*models.Mentor {
	result := make([]*models.Mentor, 0, len(mentors))

	for _, mentor := range mentors {
		if opts.OnlyVisible && !mentor.IsVisible {
			continue
		}

		// Copy to avoid mutating cached data
		m := *mentor

		// Hide secure fields unless explicitly requested
		if !opts.ShowHidden {
			m.AuthToken = ""
			m.Email = ""
		}

		result = append(result, &m)
	}

	return result
}

// filterOne applies filtering options to a single mentor
func (r *MentorRepository) filterOne(mentor *models.Mentor, opts models.FilterOptions) (*models.Mentor, error) {
	if opts.OnlyVisible && !mentor.IsVisible {
		return nil, apperrors.NotFoundError("mentor")
	}

	m := *mentor
	if !opts.ShowHidden {
		m.AuthToken = ""
		m.Email = ""
	}

	return &m, nil
}
