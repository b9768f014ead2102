package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lingora/lingora-api/config"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/services"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthService() (*services.AuthService, *MockMentorRepository, *MockMenteeStore) {
	mentorRepo := new(MockMentorRepository)
	mentees := new(MockMenteeStore)
	cfg := &config.Config{
		Session: config.SessionConfig{
			JWTSecret:       "test-secret-key-for-sessions",
			JWTIssuer:       "lingora-test",
			SessionTTLHours: 24,
		},
	}
	cfg.Server.BaseURL = "https://lingora.test"
	return services.NewAuthService(mentorRepo, mentees, cfg, new(MockHTTPClient)), mentorRepo, mentees
}

func validLoginToken() string {
	return fmt.Sprintf("ltk_%s_%d", strings.Repeat("ab", 32), time.Now().Unix())
}

func TestAuthService_RequestLogin_Mentor(t *testing.T) {
	service, mentorRepo, _ := newAuthService()
	ctx := context.Background()

	mentorRepo.On("GetByEmail", ctx, "yuki@example.com").
		Return(&models.Mentor{ID: "m-1", Name: "Yuki", Email: "yuki@example.com"}, nil).Once()
	mentorRepo.On("UpdateAuthToken", ctx, "m-1", mock.MatchedBy(func(token string) bool {
		return strings.HasPrefix(token, "ltk_")
	})).Return(nil).Once()

	resp, err := service.RequestLogin(ctx, &models.RequestLoginRequest{Email: "Yuki@Example.com", Role: "mentor"})
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	mentorRepo.AssertExpectations(t)
}

func TestAuthService_RequestLogin_Mentee(t *testing.T) {
	service, _, mentees := newAuthService()
	ctx := context.Background()

	mentees.On("GetMenteeByEmail", ctx, "sam@example.com").
		Return(&models.Mentee{ID: "e-1", Name: "Sam", Email: "sam@example.com"}, nil).Once()
	mentees.On("UpdateMenteeAuthToken", ctx, "e-1", mock.MatchedBy(func(token string) bool {
		return strings.HasPrefix(token, "ltk_")
	})).Return(nil).Once()

	resp, err := service.RequestLogin(ctx, &models.RequestLoginRequest{Email: "sam@example.com", Role: "mentee"})
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	mentees.AssertExpectations(t)
}

func TestAuthService_RequestLogin_UnknownEmailDoesNotLeak(t *testing.T) {
	service, mentorRepo, _ := newAuthService()
	ctx := context.Background()

	mentorRepo.On("GetByEmail", ctx, "ghost@example.com").
		Return(nil, apperrors.NotFoundError("mentor")).Once()

	resp, err := service.RequestLogin(ctx, &models.RequestLoginRequest{Email: "ghost@example.com", Role: "mentor"})
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	mentorRepo.AssertNotCalled(t, "UpdateAuthToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_VerifyLogin_Mentor(t *testing.T) {
	service, mentorRepo, _ := newAuthService()
	ctx := context.Background()

	token := validLoginToken()
	mentorRepo.On("GetByLoginToken", ctx, token).
		Return(&models.Mentor{ID: "m-1", Name: "Yuki", Email: "yuki@example.com", AuthToken: token}, nil).Once()
	mentorRepo.On("UpdateAuthToken", ctx, "m-1", "").Return(nil).Once()

	session, signed, err := service.VerifyLogin(ctx, token, "mentor")
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.Equal(t, "m-1", session.UserID)
	assert.Equal(t, "mentor", session.Role)
	assert.Greater(t, session.ExpiresAt, session.IssuedAt)

	// The signed JWT round-trips through the token manager
	claims, err := service.GetTokenManager().ValidateToken(signed)
	assert.NoError(t, err)
	assert.Equal(t, "m-1", claims.UserID)
	mentorRepo.AssertExpectations(t)
}

func TestAuthService_VerifyLogin_Mentee(t *testing.T) {
	service, _, mentees := newAuthService()
	ctx := context.Background()

	token := validLoginToken()
	mentees.On("GetMenteeByLoginToken", ctx, token).
		Return(&models.Mentee{ID: "e-1", Name: "Sam", Email: "sam@example.com", AuthToken: token}, nil).Once()
	mentees.On("UpdateMenteeAuthToken", ctx, "e-1", "").Return(nil).Once()

	session, signed, err := service.VerifyLogin(ctx, token, "mentee")
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.Equal(t, "e-1", session.UserID)
	assert.Equal(t, "mentee", session.Role)
	mentees.AssertExpectations(t)
}

func TestAuthService_VerifyLogin_UnknownToken(t *testing.T) {
	service, mentorRepo, _ := newAuthService()
	ctx := context.Background()

	token := validLoginToken()
	mentorRepo.On("GetByLoginToken", ctx, token).
		Return(nil, apperrors.NotFoundError("mentor")).Once()

	session, signed, err := service.VerifyLogin(ctx, token, "mentor")
	assert.Nil(t, session)
	assert.Empty(t, signed)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_VerifyLogin_ExpiredToken(t *testing.T) {
	service, mentorRepo, _ := newAuthService()
	ctx := context.Background()

	expired := fmt.Sprintf("ltk_%s_%d", strings.Repeat("ab", 32), time.Now().Add(-time.Hour).Unix())
	mentorRepo.On("GetByLoginToken", ctx, expired).
		Return(&models.Mentor{ID: "m-1", AuthToken: expired}, nil).Once()

	session, _, err := service.VerifyLogin(ctx, expired, "mentor")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	mentorRepo.AssertNotCalled(t, "UpdateAuthToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_VerifyLogin_MissingToken(t *testing.T) {
	service, _, _ := newAuthService()

	session, _, err := service.VerifyLogin(context.Background(), "", "mentor")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_RegisterMentee(t *testing.T) {
	service, _, mentees := newAuthService()
	ctx := context.Background()

	mentees.On("GetMenteeByEmail", ctx, "sam@example.com").
		Return(nil, apperrors.NotFoundError("mentee")).Once()
	mentees.On("CreateMentee", ctx, mock.MatchedBy(func(m *models.Mentee) bool {
		return m.Name == "Sam Carter" &&
			m.Email == "sam@example.com" &&
			m.Timezone == "America/New_York" &&
			m.Country == "US" &&
			m.ID != ""
	})).Return(nil).Once()

	resp, err := service.RegisterMentee(ctx, &models.RegisterMenteeRequest{
		Name:    "Sam Carter",
		Email:   "Sam@Example.com",
		Country: "us",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	mentees.AssertExpectations(t)
}

func TestAuthService_RegisterMentee_EmailConflict(t *testing.T) {
	service, _, mentees := newAuthService()
	ctx := context.Background()

	mentees.On("GetMenteeByEmail", ctx, "sam@example.com").
		Return(&models.Mentee{ID: "e-1"}, nil).Once()

	resp, err := service.RegisterMentee(ctx, &models.RegisterMenteeRequest{
		Name:  "Sam Carter",
		Email: "sam@example.com",
	})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthService_SessionSettings(t *testing.T) {
	service, _, _ := newAuthService()

	assert.Equal(t, 24*60*60, service.GetSessionTTL())
	assert.NotNil(t, service.GetTokenManager())
}
