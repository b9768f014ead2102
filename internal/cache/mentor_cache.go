package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// MentorDataSource defines the interface for mentor data fetching. The data
// source is expected to return mentors with availability already attached.
type MentorDataSource interface {
	GetAllMentors(ctx context.Context) ([]*models.Mentor, error)
	GetMentorByID(ctx context.Context, id string) (*models.Mentor, error)
}

const (
	mentorKeyPrefix  = "mentor:id:"
	slugIndexPrefix  = "mentor:slug:"
	allMentorsKey    = "mentor:all"
	metadataKey      = "mentor:metadata"
	cacheCheckPeriod = 10 * time.Second
	maxRetries       = 3
	initialRetryWait = 2 * time.Second
)

// CacheMetadata stores cache-wide information
type CacheMetadata struct {
	LastRefreshTime time.Time
	MentorCount     int
	Version         int64
}

// MentorCache manages the in-memory cache for mentors. Entries are keyed by
// ID with a secondary slug index for public profile URLs.
type MentorCache struct {
	cache       *gocache.Cache
	dataSource  MentorDataSource
	mu          sync.RWMutex
	refreshing  bool
	ready       bool
	ttl         time.Duration
	lastRefresh time.Time
}

// NewMentorCache creates a new mentor cache
func NewMentorCache(dataSource MentorDataSource, ttlSeconds int) *MentorCache {
	ttl := time.Duration(ttlSeconds) * time.Second

	return &MentorCache{
		cache:      gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		dataSource: dataSource,
		ttl:        ttl,
	}
}

// Initialize performs initial cache population (synchronous, blocks until ready)
// Should be called during application startup before accepting requests
func (mc *MentorCache) Initialize() error {
	logger.Info("Initializing mentor cache...")
	startTime := time.Now()

	err := mc.refreshWithRetry()
	if err != nil {
		logger.Error("Failed to initialize mentor cache", zap.Error(err))
		return err
	}

	mc.mu.Lock()
	mc.ready = true
	mc.lastRefresh = time.Now()
	mc.mu.Unlock()

	logger.Info("Mentor cache initialized successfully",
		zap.Duration("duration", time.Since(startTime)))

	// Start background refresh scheduler
	go mc.schedulePeriodicRefresh()

	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (mc *MentorCache) IsReady() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.ready
}

// GetByID retrieves a single mentor by ID with O(1) complexity.
// Returns immediately without blocking, never triggers a database fetch.
func (mc *MentorCache) GetByID(id string) (*models.Mentor, error) {
	if !mc.IsReady() {
		return nil, fmt.Errorf("cache not initialized")
	}

	data, found := mc.cache.Get(mentorKeyPrefix + id)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_by_id").Inc()
		logger.Debug("Mentor not found in cache", zap.String("mentor_id", id))
		return nil, fmt.Errorf("mentor not found")
	}

	metrics.CacheHits.WithLabelValues("mentor_by_id").Inc()

	mentor, ok := data.(*models.Mentor)
	if !ok {
		logger.Error("Invalid cache data type", zap.String("mentor_id", id))
		mc.cache.Delete(mentorKeyPrefix + id)
		return nil, fmt.Errorf("invalid cache data")
	}

	return mentor, nil
}

// GetBySlug retrieves a single mentor via the slug index
func (mc *MentorCache) GetBySlug(slug string) (*models.Mentor, error) {
	if !mc.IsReady() {
		return nil, fmt.Errorf("cache not initialized")
	}

	data, found := mc.cache.Get(slugIndexPrefix + slug)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_by_slug").Inc()
		return nil, fmt.Errorf("mentor not found")
	}

	id, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("invalid cache data")
	}

	metrics.CacheHits.WithLabelValues("mentor_by_slug").Inc()
	return mc.GetByID(id)
}

// Get retrieves all mentors from cache.
// Returns immediately without blocking, never triggers a database fetch.
func (mc *MentorCache) Get() ([]*models.Mentor, error) {
	if !mc.IsReady() {
		return nil, fmt.Errorf("cache not initialized")
	}

	idsData, found := mc.cache.Get(allMentorsKey)
	if !found {
		// Rare: means the list TTL expired between refreshes. Return empty
		// rather than blocking the request on a fetch.
		metrics.CacheMisses.WithLabelValues("mentor_all").Inc()
		logger.Warn("All mentors list not in cache (expired), returning empty")
		return []*models.Mentor{}, nil
	}

	ids, ok := idsData.([]string)
	if !ok {
		logger.Error("Invalid cache data type for all mentors list")
		return []*models.Mentor{}, nil
	}

	metrics.CacheHits.WithLabelValues("mentor_all").Inc()

	mentors := make([]*models.Mentor, 0, len(ids))
	for _, id := range ids {
		mentor, err := mc.GetByID(id)
		if err != nil {
			// Skip missing mentors rather than failing
			logger.Debug("Mentor missing from cache", zap.String("mentor_id", id))
			continue
		}
		mentors = append(mentors, mentor)
	}

	return mentors, nil
}

// UpdateSingleMentor refreshes ONE mentor in cache from the data source.
// Called by the profile update and availability mutation flows.
func (mc *MentorCache) UpdateSingleMentor(id string) error {
	if !mc.IsReady() {
		return fmt.Errorf("cache not initialized")
	}

	logger.Info("Updating single mentor in cache", zap.String("mentor_id", id))

	mentor, err := mc.dataSource.GetMentorByID(context.Background(), id)
	if err != nil {
		logger.Error("Failed to fetch mentor from data source",
			zap.String("mentor_id", id),
			zap.Error(err))
		return err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.cache.Set(mentorKeyPrefix+id, mentor, gocache.NoExpiration)
	mc.cache.Set(slugIndexPrefix+mentor.Slug, mentor.ID, gocache.NoExpiration)

	if err := mc.ensureMentorInListLocked(id); err != nil {
		logger.Error("Failed to update all-mentors list", zap.Error(err))
		// Non-fatal - mentor is still cached
	}

	logger.Info("Single mentor updated successfully", zap.String("mentor_id", id))

	return nil
}

// RemoveMentor removes a mentor from cache (for deletions)
func (mc *MentorCache) RemoveMentor(id string) error {
	if !mc.IsReady() {
		return fmt.Errorf("cache not initialized")
	}

	logger.Info("Removing mentor from cache", zap.String("mentor_id", id))

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mentor, err := mc.getByIDLocked(id); err == nil {
		mc.cache.Delete(slugIndexPrefix + mentor.Slug)
	}
	mc.cache.Delete(mentorKeyPrefix + id)

	idsData, found := mc.cache.Get(allMentorsKey)
	if !found {
		return nil // List expired
	}

	ids, ok := idsData.([]string)
	if !ok {
		return fmt.Errorf("invalid all-mentors list type")
	}

	newIDs := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			newIDs = append(newIDs, existing)
		}
	}

	mc.cache.Set(allMentorsKey, newIDs, mc.ttl)

	return nil
}

// ForceRefresh triggers a background refresh and returns immediately
func (mc *MentorCache) ForceRefresh() ([]*models.Mentor, error) {
	logger.Info("Force refresh requested, triggering background refresh")

	go func() {
		if err := mc.refreshInBackground(); err != nil {
			logger.Error("Background refresh failed", zap.Error(err))
		}
	}()

	// Return current cached data immediately
	return mc.Get()
}

// schedulePeriodicRefresh runs background refresh at TTL intervals
func (mc *MentorCache) schedulePeriodicRefresh() {
	ticker := time.NewTicker(mc.ttl)
	defer ticker.Stop()

	for range ticker.C {
		logger.Info("Starting scheduled cache refresh")

		if err := mc.refreshInBackground(); err != nil {
			logger.Error("Scheduled cache refresh failed", zap.Error(err))
			// Don't stop the scheduler - will retry on next tick
		}
	}
}

// refreshInBackground performs non-blocking background refresh
func (mc *MentorCache) refreshInBackground() error {
	mc.mu.Lock()
	if mc.refreshing {
		mc.mu.Unlock()
		logger.Debug("Refresh already in progress, skipping")
		return nil
	}
	mc.refreshing = true
	mc.mu.Unlock()

	defer func() {
		mc.mu.Lock()
		mc.refreshing = false
		mc.mu.Unlock()
	}()

	logger.Info("Background refresh started")
	startTime := time.Now()

	mentors, err := mc.dataSource.GetAllMentors(context.Background())
	if err != nil {
		logger.Error("Failed to fetch mentors in background refresh", zap.Error(err))
		return err
	}

	mc.populateCache(mentors)

	mc.mu.Lock()
	mc.lastRefresh = time.Now()
	mc.mu.Unlock()

	logger.Info("Background refresh completed",
		zap.Int("count", len(mentors)),
		zap.Duration("duration", time.Since(startTime)))

	return nil
}

// refreshWithRetry performs a refresh with exponential backoff retry logic
func (mc *MentorCache) refreshWithRetry() error {
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			//nolint:gosec // G115: attempt bounded by maxRetries (3), max shift is 2, no overflow possible
			waitTime := initialRetryWait * time.Duration(1<<uint(attempt-1)) // Exponential backoff
			logger.Info("Retrying cache refresh",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", maxRetries),
				zap.Duration("wait_time", waitTime))
			time.Sleep(waitTime)
		}

		mentors, fetchErr := mc.dataSource.GetAllMentors(context.Background())
		if fetchErr != nil {
			err = fetchErr
			logger.Error("Cache refresh attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		mc.populateCache(mentors)
		return nil
	}

	return fmt.Errorf("failed to refresh cache after %d attempts: %w", maxRetries, err)
}

// populateCache stores all mentors in cache with individual keys
func (mc *MentorCache) populateCache(mentors []*models.Mentor) {
	ids := make([]string, 0, len(mentors))

	for _, mentor := range mentors {
		// Individual entries never expire; expiration is controlled at the
		// "mentor:all" list level.
		mc.cache.Set(mentorKeyPrefix+mentor.ID, mentor, gocache.NoExpiration)
		mc.cache.Set(slugIndexPrefix+mentor.Slug, mentor.ID, gocache.NoExpiration)
		ids = append(ids, mentor.ID)
	}

	// The ID list carries the TTL - this controls cache expiration
	mc.cache.Set(allMentorsKey, ids, mc.ttl)

	mc.cache.Set(metadataKey, &CacheMetadata{
		LastRefreshTime: time.Now(),
		MentorCount:     len(mentors),
		Version:         time.Now().Unix(),
	}, gocache.NoExpiration)

	metrics.CacheSize.WithLabelValues("mentors").Set(float64(len(mentors)))

	logger.Info("Cache populated successfully", zap.Int("count", len(mentors)))
}

// getByIDLocked looks up a mentor entry without readiness checks or metrics.
// MUST be called with mc.mu locked.
func (mc *MentorCache) getByIDLocked(id string) (*models.Mentor, error) {
	data, found := mc.cache.Get(mentorKeyPrefix + id)
	if !found {
		return nil, fmt.Errorf("mentor not found")
	}
	mentor, ok := data.(*models.Mentor)
	if !ok {
		return nil, fmt.Errorf("invalid cache data")
	}
	return mentor, nil
}

// ensureMentorInListLocked ensures id is in the all-mentors list.
// MUST be called with mc.mu locked.
func (mc *MentorCache) ensureMentorInListLocked(id string) error {
	idsData, found := mc.cache.Get(allMentorsKey)
	if !found {
		// List expired - will be recreated on next full refresh
		logger.Debug("All-mentors list not found, skipping update")
		return nil
	}

	ids, ok := idsData.([]string)
	if !ok {
		return fmt.Errorf("invalid all-mentors list type")
	}

	for _, existing := range ids {
		if existing == id {
			return nil // Already in list
		}
	}

	ids = append(ids, id)
	mc.cache.Set(allMentorsKey, ids, mc.ttl)

	return nil
}

// Clear clears the entire cache
func (mc *MentorCache) Clear() {
	mc.cache.Flush()
	logger.Info("Mentor cache cleared")
}

// GetMetadata returns cache metadata
func (mc *MentorCache) GetMetadata() (*CacheMetadata, error) {
	data, found := mc.cache.Get(metadataKey)
	if !found {
		return nil, fmt.Errorf("metadata not found")
	}

	metadata, ok := data.(*CacheMetadata)
	if !ok {
		return nil, fmt.Errorf("invalid metadata type")
	}

	return metadata, nil
}
