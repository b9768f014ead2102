package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lingora/lingora-api/config"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/repository"
	"github.com/lingora/lingora-api/internal/scheduling"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/slug"
	"go.uber.org/zap"
)

// StorageClient is the avatar storage surface the mentor service depends on
type StorageClient interface {
	UploadImage(ctx context.Context, imageData, key, contentType string) (string, error)
	ValidateImageType(contentType string) error
	ValidateImageSize(imageData string) error
}

// LanguagesSource serves the taught-languages facet
type LanguagesSource interface {
	Get() ([]string, error)
	Invalidate()
}

// MentorService handles mentor catalog, registration and profile operations
type MentorService struct {
	repo      repository.MentorRepositoryInterface
	languages LanguagesSource
	storage   StorageClient
	config    *config.Config
}

// NewMentorService creates a new mentor service
func NewMentorService(repo repository.MentorRepositoryInterface, languages LanguagesSource, storage StorageClient, cfg *config.Config) *MentorService {
	return &MentorService{
		repo:      repo,
		languages: languages,
		storage:   storage,
		config:    cfg,
	}
}

// GetAllMentors returns the mentor catalog
func (s *MentorService) GetAllMentors(ctx context.Context, opts models.FilterOptions) ([]*models.Mentor, error) {
	return s.repo.GetAll(ctx, opts)
}

// GetMentorByID returns a single mentor
func (s *MentorService) GetMentorByID(ctx context.Context, id string, opts models.FilterOptions) (*models.Mentor, error) {
	return s.repo.GetByID(ctx, id, opts)
}

// GetMentorBySlug returns a single mentor by public profile slug
func (s *MentorService) GetMentorBySlug(ctx context.Context, slugStr string, opts models.FilterOptions) (*models.Mentor, error) {
	return s.repo.GetBySlug(ctx, slugStr, opts)
}

// SearchMentors filters the catalog by taught language
func (s *MentorService) SearchMentors(ctx context.Context, language string, opts models.FilterOptions) ([]*models.Mentor, error) {
	mentors, err := s.repo.GetAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	if language == "" {
		return mentors, nil
	}

	needle := strings.ToLower(strings.TrimSpace(language))
	matched := make([]*models.Mentor, 0, len(mentors))
	for _, mentor := range mentors {
		for _, lang := range mentor.Languages {
			if strings.ToLower(lang) == needle {
				matched = append(matched, mentor)
				break
			}
		}
	}

	return matched, nil
}

// GetLanguages returns the distinct set of taught languages
func (s *MentorService) GetLanguages(ctx context.Context) ([]string, error) {
	return s.languages.Get()
}

// RegisterMentor creates a new mentor account with a generated profile slug
func (s *MentorService) RegisterMentor(ctx context.Context, req *models.RegisterMentorRequest) (*models.RegisterMentorResponse, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ConflictError("email already registered")
	}

	timezone, err := scheduling.ValidateTimezone(req.Timezone, req.Country)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	mentor := &models.Mentor{
		ID:         id,
		Slug:       slug.GenerateMentorSlug(req.Name, id),
		Name:       req.Name,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Headline:   req.Headline,
		About:      req.About,
		Languages:  req.Languages,
		HourlyRate: req.HourlyRate,
		Timezone:   timezone,
		Country:    strings.ToUpper(req.Country),
		IsVisible:  true,
	}

	if err := s.repo.Create(ctx, mentor); err != nil {
		return nil, err
	}

	s.languages.Invalidate()

	logger.Info("Mentor registered",
		zap.String("mentor_id", mentor.ID),
		zap.String("slug", mentor.Slug))

	return &models.RegisterMentorResponse{ID: mentor.ID, Slug: mentor.Slug}, nil
}

// UpdateProfile applies a profile update for the authenticated mentor
func (s *MentorService) UpdateProfile(ctx context.Context, mentorID string, req *models.UpdateProfileRequest) error {
	// An explicit timezone change must pass the allow-list before it is
	// persisted; bad zones would silently skew every expanded slot.
	if req.Timezone != "" {
		validated, err := scheduling.ValidateTimezone(req.Timezone, req.Country)
		if err != nil {
			return err
		}
		req.Timezone = validated
	}

	if err := s.repo.UpdateProfile(ctx, mentorID, req); err != nil {
		return err
	}

	if len(req.Languages) > 0 {
		s.languages.Invalidate()
	}

	return nil
}

// UploadAvatar validates and stores a profile picture, then records its URL
func (s *MentorService) UploadAvatar(ctx context.Context, mentorID string, req *models.UploadAvatarRequest) (string, error) {
	if s.storage == nil {
		return "", apperrors.InternalError("avatar storage is not configured")
	}
	if err := s.storage.ValidateImageType(req.ContentType); err != nil {
		return "", apperrors.InvalidInputError("contentType", err.Error())
	}
	if err := s.storage.ValidateImageSize(req.ImageData); err != nil {
		return "", apperrors.InvalidInputError("imageData", err.Error())
	}

	key := fmt.Sprintf("avatars/%s", mentorID)
	url, err := s.storage.UploadImage(ctx, req.ImageData, key, req.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.repo.UpdateAvatar(ctx, mentorID, url); err != nil {
		return "", err
	}

	return url, nil
}
