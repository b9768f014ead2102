package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lingora/lingora-api/pkg/logger"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	languagesCacheKey = "languages"
	languagesCacheTTL = 24 * time.Hour
)

// LanguagesCache serves the distinct set of taught languages for the search
// facet. Derived from visible mentors, so a long TTL is fine.
type LanguagesCache struct {
	cache      *gocache.Cache
	dataSource MentorDataSource
	mu         sync.RWMutex
	ready      bool
}

// NewLanguagesCache creates a new languages cache
func NewLanguagesCache(dataSource MentorDataSource) *LanguagesCache {
	return &LanguagesCache{
		cache:      gocache.New(languagesCacheTTL, time.Hour),
		dataSource: dataSource,
	}
}

// Initialize performs initial cache population (synchronous, blocks until ready)
func (lc *LanguagesCache) Initialize() error {
	logger.Info("Initializing languages cache...")

	languages, err := lc.computeLanguages()
	if err != nil {
		logger.Error("Failed to initialize languages cache", zap.Error(err))
		return err
	}

	lc.cache.Set(languagesCacheKey, languages, languagesCacheTTL)

	lc.mu.Lock()
	lc.ready = true
	lc.mu.Unlock()

	logger.Info("Languages cache initialized", zap.Int("count", len(languages)))
	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (lc *LanguagesCache) IsReady() bool {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.ready
}

// Get returns the sorted list of taught languages, recomputing on expiry
func (lc *LanguagesCache) Get() ([]string, error) {
	data, found := lc.cache.Get(languagesCacheKey)
	if found {
		if languages, ok := data.([]string); ok {
			return languages, nil
		}
	}

	languages, err := lc.computeLanguages()
	if err != nil {
		return nil, err
	}

	lc.cache.Set(languagesCacheKey, languages, languagesCacheTTL)
	return languages, nil
}

// Invalidate drops the cached list so the next read recomputes it
func (lc *LanguagesCache) Invalidate() {
	lc.cache.Delete(languagesCacheKey)
}

func (lc *LanguagesCache) computeLanguages() ([]string, error) {
	mentors, err := lc.dataSource.GetAllMentors(context.Background())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	languages := make([]string, 0)
	for _, mentor := range mentors {
		if !mentor.IsVisible {
			continue
		}
		for _, lang := range mentor.Languages {
			lang = strings.TrimSpace(lang)
			if lang == "" || seen[strings.ToLower(lang)] {
				continue
			}
			seen[strings.ToLower(lang)] = true
			languages = append(languages, lang)
		}
	}

	sort.Strings(languages)
	return languages, nil
}
