package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/internal/models"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

type authRepository interface {
	SignIn(ctx context.Context, creds models.Credentials) (string, error)
	DeanProfile(ctx context.Context) (*models.Profile, error)
	TeacherProfile(ctx context.Context) (*models.Profile, error)
	StudentProfile(ctx context.Context) (*models.Profile, error)
}

type sessionProvider interface {
	Set(token string) error
	Clear() error
	Token() string
}

// AuthConfig governs optional authentication behaviour.
type AuthConfig struct {
	AllowManualRoleOverride bool
}

// AuthService owns the session bootstrap: sign-in, role resolution and
// sign-out.
type AuthService struct {
	repo      authRepository
	sessions  sessionProvider
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig

	principal *models.Principal
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo authRepository, sessions sessionProvider, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, sessions: sessions, validator: validate, logger: logger, config: config}
}

// SignIn authenticates, persists the token and resolves the role.
func (s *AuthService) SignIn(ctx context.Context, creds models.Credentials) (*models.Principal, error) {
	if err := s.validator.Struct(creds); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid credentials payload")
	}

	token, err := s.repo.SignIn(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(token); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist session")
	}

	return s.ResolveRole(ctx)
}

// ResolveRole probes the three role profiles strictly in priority order,
// stopping at the first success. The sequencing bounds worst-case latency
// and is relied on for correctness: at most one role is ever authoritative.
// When every probe fails the session is treated as invalid and cleared.
func (s *AuthService) ResolveRole(ctx context.Context) (*models.Principal, error) {
	probes := []struct {
		role  models.Role
		fetch func(context.Context) (*models.Profile, error)
	}{
		{models.RoleDean, s.repo.DeanProfile},
		{models.RoleTeacher, s.repo.TeacherProfile},
		{models.RoleStudent, s.repo.StudentProfile},
	}

	for _, probe := range probes {
		profile, err := probe.fetch(ctx)
		if err != nil {
			s.logger.Debug("role probe failed",
				zap.String("role", string(probe.role)),
				zap.Error(err))
			continue
		}
		principal := &models.Principal{Role: probe.role, Profile: *profile}
		s.principal = principal
		return principal, nil
	}

	s.principal = nil
	if err := s.sessions.Clear(); err != nil {
		s.logger.Warn("failed to clear session after role resolution failure", zap.Error(err))
	}
	return nil, appErrors.Clone(appErrors.ErrRoleResolution, "")
}

// SignOut clears the session and forgets the resolved principal.
func (s *AuthService) SignOut() error {
	s.principal = nil
	return s.sessions.Clear()
}

// Principal returns the currently resolved identity, nil when signed out.
func (s *AuthService) Principal() *models.Principal {
	return s.principal
}

// SignedIn reports whether a token is present in durable storage.
func (s *AuthService) SignedIn() bool {
	return s.sessions.Token() != ""
}

// OverrideRole forces a different active role. Disabled unless the
// deployment opts in via configuration.
func (s *AuthService) OverrideRole(role models.Role) error {
	if !s.config.AllowManualRoleOverride {
		return appErrors.Clone(appErrors.ErrValidation, "manual role override is disabled")
	}
	if !role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	if s.principal == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "no active session")
	}
	s.principal = &models.Principal{Role: role, Profile: s.principal.Profile}
	return nil
}
