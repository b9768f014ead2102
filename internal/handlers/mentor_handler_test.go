package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-api/internal/models"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// stubMentorService returns canned results per method
type stubMentorService struct {
	mentors   []*models.Mentor
	mentor    *models.Mentor
	languages []string
	err       error
}

func (s *stubMentorService) GetAllMentors(ctx context.Context, opts models.FilterOptions) ([]*models.Mentor, error) {
	return s.mentors, s.err
}

func (s *stubMentorService) GetMentorByID(ctx context.Context, id string, opts models.FilterOptions) (*models.Mentor, error) {
	return s.mentor, s.err
}

func (s *stubMentorService) GetMentorBySlug(ctx context.Context, slug string, opts models.FilterOptions) (*models.Mentor, error) {
	return s.mentor, s.err
}

func (s *stubMentorService) SearchMentors(ctx context.Context, language string, opts models.FilterOptions) ([]*models.Mentor, error) {
	return s.mentors, s.err
}

func (s *stubMentorService) GetLanguages(ctx context.Context) ([]string, error) {
	return s.languages, s.err
}

func (s *stubMentorService) RegisterMentor(ctx context.Context, req *models.RegisterMentorRequest) (*models.RegisterMentorResponse, error) {
	return nil, s.err
}

func (s *stubMentorService) UpdateProfile(ctx context.Context, mentorID string, req *models.UpdateProfileRequest) error {
	return s.err
}

func (s *stubMentorService) UploadAvatar(ctx context.Context, mentorID string, req *models.UploadAvatarRequest) (string, error) {
	return "", s.err
}

func mentorRouter(service *stubMentorService) *gin.Engine {
	handler := NewMentorHandler(service, "https://lingora.app")
	router := gin.New()
	router.GET("/api/v1/mentors", handler.GetMentors)
	router.GET("/api/v1/mentors/:id", handler.GetMentorByID)
	router.GET("/api/v1/mentors/slug/:slug", handler.GetMentorBySlug)
	router.GET("/api/v1/languages", handler.GetLanguages)
	return router
}

func TestMentorHandler_GetMentors_ReturnsCatalogCards(t *testing.T) {
	service := &stubMentorService{mentors: []*models.Mentor{{
		ID:         "m-1",
		Slug:       "yuki-tanaka-42ab17c9",
		Name:       "Yuki Tanaka",
		Languages:  []string{"Japanese", "English"},
		HourlyRate: 60,
		Timezone:   "Asia/Tokyo",
	}}}

	w := httptest.NewRecorder()
	router := mentorRouter(service)
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/mentors", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Yuki Tanaka"`)
	assert.Contains(t, w.Body.String(), `"languages":"Japanese,English"`)
	assert.Contains(t, w.Body.String(), `"link":"https://lingora.app/mentor/yuki-tanaka-42ab17c9"`)
	// Catalog cards never carry contact or availability details.
	assert.NotContains(t, w.Body.String(), "email")
	assert.NotContains(t, w.Body.String(), "availability")
}

func TestMentorHandler_GetMentorByID_NotFound(t *testing.T) {
	service := &stubMentorService{err: apperrors.NotFoundError("mentor")}

	w := httptest.NewRecorder()
	mentorRouter(service).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/mentors/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMentorHandler_GetMentorBySlug(t *testing.T) {
	service := &stubMentorService{mentor: &models.Mentor{
		ID:   "m-1",
		Slug: "yuki-tanaka-42ab17c9",
		Name: "Yuki Tanaka",
	}}

	w := httptest.NewRecorder()
	mentorRouter(service).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/mentors/slug/yuki-tanaka-42ab17c9", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"m-1"`)
}

func TestMentorHandler_GetLanguages(t *testing.T) {
	service := &stubMentorService{languages: []string{"English", "Japanese", "Spanish"}}

	w := httptest.NewRecorder()
	mentorRouter(service).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/languages", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"languages":["English","Japanese","Spanish"]}`, w.Body.String())
}
