package services_test

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/lingora/lingora-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockMentorRepository is a mock implementation of MentorRepositoryInterface
type MockMentorRepository struct {
	mock.Mock
}

func (m *MockMentorRepository) GetAll(ctx context.Context, opts models.FilterOptions) ([]*models.Mentor, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) GetByID(ctx context.Context, id string, opts models.FilterOptions) (*models.Mentor, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) GetBySlug(ctx context.Context, slug string, opts models.FilterOptions) (*models.Mentor, error) {
	args := m.Called(ctx, slug, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) GetByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) GetByLoginToken(ctx context.Context, token string) (*models.Mentor, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	args := m.Called(ctx, mentor)
	return args.Error(0)
}

func (m *MockMentorRepository) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockMentorRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

func (m *MockMentorRepository) UpdateAuthToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockMentorRepository) IncrementSessionCount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMentorRepository) RefreshMentor(id string) {
	m.Called(id)
}

func (m *MockMentorRepository) InvalidateCache() {
	m.Called()
}

// MockAvailabilityStore is a mock implementation of repository.AvailabilityStore
type MockAvailabilityStore struct {
	mock.Mock
}

func (m *MockAvailabilityStore) GetSlotsByMentor(ctx context.Context, mentorID string) ([]*models.AvailabilitySlot, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AvailabilitySlot), args.Error(1)
}

func (m *MockAvailabilityStore) GetAllSlots(ctx context.Context) ([]*models.AvailabilitySlot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AvailabilitySlot), args.Error(1)
}

func (m *MockAvailabilityStore) InsertSlot(ctx context.Context, slot *models.AvailabilitySlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockAvailabilityStore) UpdateSlot(ctx context.Context, mentorID string, slot *models.AvailabilitySlot) error {
	args := m.Called(ctx, mentorID, slot)
	return args.Error(0)
}

func (m *MockAvailabilityStore) DeleteSlot(ctx context.Context, mentorID, slotID string) error {
	args := m.Called(ctx, mentorID, slotID)
	return args.Error(0)
}

func (m *MockAvailabilityStore) ReplaceSlot(ctx context.Context, mentorID, removeID string, replacements []*models.AvailabilitySlot) error {
	args := m.Called(ctx, mentorID, removeID, replacements)
	return args.Error(0)
}

// MockBookingStore is a mock implementation of repository.BookingStore
type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingStore) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetBookingsByMentor(ctx context.Context, mentorID string, endingAfter time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, mentorID, endingAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetBookingsByMentee(ctx context.Context, menteeID string, endingAfter time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, menteeID, endingAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingStore) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockMenteeStore is a mock implementation of repository.MenteeStore
type MockMenteeStore struct {
	mock.Mock
}

func (m *MockMenteeStore) GetMenteeByID(ctx context.Context, id string) (*models.Mentee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func (m *MockMenteeStore) GetMenteeByEmail(ctx context.Context, email string) (*models.Mentee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func (m *MockMenteeStore) GetMenteeByLoginToken(ctx context.Context, token string) (*models.Mentee, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func (m *MockMenteeStore) CreateMentee(ctx context.Context, mentee *models.Mentee) error {
	args := m.Called(ctx, mentee)
	return args.Error(0)
}

func (m *MockMenteeStore) UpdateMenteeAuthToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockMenteeStore) AdjustCredits(ctx context.Context, menteeID string, delta int) error {
	args := m.Called(ctx, menteeID, delta)
	return args.Error(0)
}

// MockStorageClient is a mock implementation of services.StorageClient
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	args := m.Called(ctx, imageData, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) ValidateImageType(contentType string) error {
	args := m.Called(contentType)
	return args.Error(0)
}

func (m *MockStorageClient) ValidateImageSize(imageData string) error {
	args := m.Called(imageData)
	return args.Error(0)
}

// MockLanguagesSource is a mock implementation of services.LanguagesSource
type MockLanguagesSource struct {
	mock.Mock
}

func (m *MockLanguagesSource) Get() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLanguagesSource) Invalidate() {
	m.Called()
}

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(url, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Get(url string) (*http.Response, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

// fixedClock pins time for deterministic scheduling behavior
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}
