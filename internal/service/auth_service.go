package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/peer-support/internal/auth"
	"github.com/spec-kit/peer-support/internal/config"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/repository"
	apperrors "github.com/spec-kit/peer-support/pkg/util/errorutil"
)

// AuthService coordinates counselor login and account provisioning.
type AuthService struct {
	counselors repository.CounselorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	bootstrap  config.AuthConfig
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, counselors repository.CounselorRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		counselors: counselors,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		bootstrap:  cfg.Auth,
		logger:     logger,
	}
}

// LoginCounselor authenticates a counselor and returns a signed token.
// Unknown email and wrong password produce the same error.
func (s *AuthService) LoginCounselor(ctx context.Context, email, password string) (*domain.Counselor, string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	counselor, err := s.counselors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !auth.PasswordMatches(counselor.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !counselor.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("counselor inactive")
	}

	token, exp, err := s.tokenMgr.GenerateToken(counselor.ID, counselor.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return counselor, token, exp, nil
}

// CreateCounselor provisions a new counselor account.
func (s *AuthService) CreateCounselor(ctx context.Context, name, email, password string, role domain.CounselorRole) (*domain.Counselor, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if !strings.Contains(email, "@") {
		details["email"] = "invalid"
	}
	if !role.Valid() {
		details["role"] = "invalid"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid counselor", details)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, apperrors.NewValidationError("invalid counselor", map[string]any{"password": "too short"})
		}
		return nil, err
	}

	counselor := &domain.Counselor{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.counselors.Create(ctx, counselor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}
	return counselor, nil
}

// EnsureBootstrapCounselor creates the configured admin account when it does
// not exist yet. Without bootstrap credentials it does nothing.
func (s *AuthService) EnsureBootstrapCounselor(ctx context.Context) error {
	email := strings.TrimSpace(s.bootstrap.BootstrapEmail)
	if email == "" || s.bootstrap.BootstrapPassword == "" {
		s.logger.Warn("no bootstrap counselor configured")
		return nil
	}

	_, err := s.counselors.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	name := s.bootstrap.BootstrapName
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	counselor, err := s.CreateCounselor(ctx, name, email, s.bootstrap.BootstrapPassword, domain.CounselorRoleAdmin)
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap counselor created", zap.String("counselor_id", counselor.ID))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
