package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lingora/lingora-api/config"
	"github.com/lingora/lingora-api/internal/models"
	"github.com/lingora/lingora-api/internal/repository"
	"github.com/lingora/lingora-api/internal/scheduling"
	apperrors "github.com/lingora/lingora-api/pkg/errors"
	"github.com/lingora/lingora-api/pkg/httpclient"
	"github.com/lingora/lingora-api/pkg/jwt"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/metrics"
	"github.com/lingora/lingora-api/pkg/trigger"
	"go.uber.org/zap"
)

const (
	roleMentor = "mentor"
	roleMentee = "mentee"

	loginTokenTTL      = 15 * time.Minute
	menteeStartCredits = 0
)

// AuthService implements passwordless login for both account types. A login
// request stores a one-time token and emails a magic link; verifying the
// token consumes it and issues a JWT session.
type AuthService struct {
	mentorRepo   repository.MentorRepositoryInterface
	mentees      repository.MenteeStore
	tokenManager *jwt.TokenManager
	config       *config.Config
	httpClient   httpclient.Client
}

// NewAuthService creates a new auth service
func NewAuthService(
	mentorRepo repository.MentorRepositoryInterface,
	mentees repository.MenteeStore,
	cfg *config.Config,
	httpClient httpclient.Client,
) *AuthService {
	return &AuthService{
		mentorRepo:   mentorRepo,
		mentees:      mentees,
		tokenManager: jwt.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.SessionTTLHours),
		config:       cfg,
		httpClient:   httpClient,
	}
}

// RequestLogin generates a one-time login token for the account matching the
// email and role, and hands it to the email webhook. The response does not
// reveal whether the account exists.
func (s *AuthService) RequestLogin(ctx context.Context, req *models.RequestLoginRequest) (*models.RequestLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	accountID, name, err := s.lookupByEmail(ctx, email, req.Role)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login request for unknown email",
				zap.String("role", req.Role))
			metrics.AuthLoginRequests.WithLabelValues(req.Role, "not_found").Inc()
			// Same response as the success path
			return &models.RequestLoginResponse{Success: true, Message: "If the account exists, a login link has been sent"}, nil
		}
		metrics.AuthLoginRequests.WithLabelValues(req.Role, "error").Inc()
		return nil, err
	}

	token, err := generateLoginToken()
	if err != nil {
		logger.Error("Failed to generate login token", zap.Error(err))
		metrics.AuthLoginRequests.WithLabelValues(req.Role, "token_generation_failed").Inc()
		return nil, apperrors.InternalError("failed to generate login token")
	}

	if err := s.storeLoginToken(ctx, accountID, req.Role, token); err != nil {
		logger.Error("Failed to store login token",
			zap.String("account_id", accountID),
			zap.Error(err))
		metrics.AuthLoginRequests.WithLabelValues(req.Role, "storage_failed").Inc()
		return nil, err
	}

	loginURL := fmt.Sprintf("%s/auth/callback?role=%s&token=%s", s.config.Server.BaseURL, req.Role, token)

	if s.config.EventTriggers.LoginEmailTriggerURL != "" {
		payload := map[string]interface{}{
			"type": "login_link",
			"account": map[string]string{
				"email": email,
				"name":  name,
				"role":  req.Role,
			},
			"login_url": loginURL,
		}
		trigger.CallAsyncWithPayload(s.config.EventTriggers.LoginEmailTriggerURL, payload, s.httpClient)
	} else if s.config.IsDevelopment() {
		// No email pipeline locally, print the link instead
		logger.Info("=== DEVELOPMENT LOGIN URL ===",
			zap.String("email", email),
			zap.String("role", req.Role),
			zap.String("login_url", loginURL))
	}

	metrics.AuthLoginRequests.WithLabelValues(req.Role, "success").Inc()

	return &models.RequestLoginResponse{Success: true, Message: "If the account exists, a login link has been sent"}, nil
}

// VerifyLogin consumes a one-time login token and returns the established
// session together with the signed JWT for the cookie.
func (s *AuthService) VerifyLogin(ctx context.Context, token, role string) (*models.Session, string, error) {
	if token == "" {
		metrics.AuthVerifyRequests.WithLabelValues(role, "missing_token").Inc()
		return nil, "", apperrors.UnauthorizedError("missing login token")
	}

	accountID, email, name, stored, err := s.lookupByLoginToken(ctx, token, role)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			metrics.AuthVerifyRequests.WithLabelValues(role, "invalid").Inc()
			return nil, "", apperrors.UnauthorizedError("invalid or expired login token")
		}
		metrics.AuthVerifyRequests.WithLabelValues(role, "error").Inc()
		return nil, "", err
	}

	if !jwt.TimingSafeCompare(stored, token) {
		metrics.AuthVerifyRequests.WithLabelValues(role, "invalid").Inc()
		return nil, "", apperrors.UnauthorizedError("invalid or expired login token")
	}

	issuedAt, ok := loginTokenIssuedAt(token)
	if !ok || time.Since(issuedAt) > loginTokenTTL {
		logger.Warn("Login token expired",
			zap.String("account_id", accountID),
			zap.String("role", role))
		metrics.AuthVerifyRequests.WithLabelValues(role, "expired").Inc()
		return nil, "", apperrors.UnauthorizedError("invalid or expired login token")
	}

	// Single use: clear before issuing the session
	if err := s.storeLoginToken(ctx, accountID, role, ""); err != nil {
		logger.Error("Failed to clear login token",
			zap.String("account_id", accountID),
			zap.Error(err))
		metrics.AuthVerifyRequests.WithLabelValues(role, "error").Inc()
		return nil, "", err
	}

	signed, err := s.tokenManager.GenerateToken(accountID, email, name, role)
	if err != nil {
		logger.Error("Failed to generate session token",
			zap.String("account_id", accountID),
			zap.Error(err))
		metrics.AuthVerifyRequests.WithLabelValues(role, "error").Inc()
		return nil, "", apperrors.InternalError("failed to create session")
	}

	now := time.Now()
	session := &models.Session{
		UserID:    accountID,
		Email:     email,
		Name:      name,
		Role:      role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenManager.GetExpirationTime()).Unix(),
	}

	metrics.AuthVerifyRequests.WithLabelValues(role, "success").Inc()
	logger.Info("Login verified",
		zap.String("account_id", accountID),
		zap.String("role", role))

	return session, signed, nil
}

// RegisterMentee creates a mentee account
func (s *AuthService) RegisterMentee(ctx context.Context, req *models.RegisterMenteeRequest) (*models.RegisterMenteeResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.mentees.GetMenteeByEmail(ctx, email); err == nil {
		return nil, apperrors.ConflictError("an account with this email already exists")
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	timezone, err := scheduling.ValidateTimezone(req.Timezone, req.Country)
	if err != nil {
		return nil, err
	}

	mentee := &models.Mentee{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Timezone: timezone,
		Country:  strings.ToUpper(strings.TrimSpace(req.Country)),
		Credits:  menteeStartCredits,
	}

	if err := s.mentees.CreateMentee(ctx, mentee); err != nil {
		return nil, err
	}

	logger.Info("Mentee registered",
		zap.String("mentee_id", mentee.ID))

	return &models.RegisterMenteeResponse{ID: mentee.ID}, nil
}

// GetSessionTTL returns the session lifetime in seconds, for cookie max-age
func (s *AuthService) GetSessionTTL() int {
	return int(s.tokenManager.GetExpirationTime().Seconds())
}

// GetCookieDomain returns the domain attribute for the session cookie
func (s *AuthService) GetCookieDomain() string {
	return s.config.Session.CookieDomain
}

// GetCookieSecure returns whether the session cookie requires HTTPS
func (s *AuthService) GetCookieSecure() bool {
	return s.config.Session.CookieSecure
}

// GetTokenManager exposes the token manager for the session middleware
func (s *AuthService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}

func (s *AuthService) lookupByEmail(ctx context.Context, email, role string) (id, name string, err error) {
	switch role {
	case roleMentor:
		mentor, err := s.mentorRepo.GetByEmail(ctx, email)
		if err != nil {
			return "", "", err
		}
		return mentor.ID, mentor.Name, nil
	case roleMentee:
		mentee, err := s.mentees.GetMenteeByEmail(ctx, email)
		if err != nil {
			return "", "", err
		}
		return mentee.ID, mentee.Name, nil
	}
	return "", "", apperrors.InvalidInputError("role", "must be mentor or mentee")
}

func (s *AuthService) lookupByLoginToken(ctx context.Context, token, role string) (id, email, name, stored string, err error) {
	switch role {
	case roleMentor:
		mentor, err := s.mentorRepo.GetByLoginToken(ctx, token)
		if err != nil {
			return "", "", "", "", err
		}
		return mentor.ID, mentor.Email, mentor.Name, mentor.AuthToken, nil
	case roleMentee:
		mentee, err := s.mentees.GetMenteeByLoginToken(ctx, token)
		if err != nil {
			return "", "", "", "", err
		}
		return mentee.ID, mentee.Email, mentee.Name, mentee.AuthToken, nil
	}
	return "", "", "", "", apperrors.InvalidInputError("role", "must be mentor or mentee")
}

func (s *AuthService) storeLoginToken(ctx context.Context, accountID, role, token string) error {
	if role == roleMentee {
		return s.mentees.UpdateMenteeAuthToken(ctx, accountID, token)
	}
	return s.mentorRepo.UpdateAuthToken(ctx, accountID, token)
}

// generateLoginToken creates a secure random login token.
// Format: ltk_{random_hex}_{unix_timestamp}
func generateLoginToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return fmt.Sprintf("ltk_%s_%d", hex.EncodeToString(bytes), time.Now().Unix()), nil
}

// loginTokenIssuedAt extracts the issue time embedded in a login token
func loginTokenIssuedAt(token string) (time.Time, bool) {
	idx := strings.LastIndexByte(token, '_')
	if idx < 0 {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(token[idx+1:], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
