package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/auth"
	"github.com/spec-kit/process-desk/internal/config"
	"github.com/spec-kit/process-desk/internal/domain"
	"github.com/spec-kit/process-desk/internal/events"
	"github.com/spec-kit/process-desk/internal/repository"
	"github.com/spec-kit/process-desk/internal/session"
	apperrors "github.com/spec-kit/process-desk/pkg/util"
)

// InvalidCredentialsMessage is shown when a login attempt fails.
const InvalidCredentialsMessage = "Usuário ou senha inválidos"

// AuthService coordinates login, logout and account provisioning.
type AuthService struct {
	users           repository.UserRepository
	tokenMgr        *auth.TokenManager
	bcryptCost      int
	caseInsensitive bool
	decoy           *auth.DecoyHasher
	dispatcher      events.Dispatcher
	logger          *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.TokenSecret, cfg.LoginTokenTTL())
	}
	return &AuthService{
		users:           deps.UserRepo,
		tokenMgr:        tokens,
		bcryptCost:      cfg.BcryptCost,
		caseInsensitive: cfg.UsernameCaseInsensitive,
		decoy:           auth.NewDecoyHasher(cfg.BcryptCost),
		dispatcher:      deps.Dispatcher,
		logger:          logger,
	}
}

func (s *AuthService) match() repository.UsernameMatch {
	if s.caseInsensitive {
		return repository.MatchCaseInsensitive
	}
	return repository.MatchExact
}

// Authenticate reports whether exactly one stored account matches username
// and its hash verifies password. Lookup failures return false together with
// the classified error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return false, nil
	}

	users, err := s.users.FindByUsername(ctx, username, s.match())
	if err != nil {
		s.logger.Warn("credential lookup failed", zap.Error(err))
		return false, apperrors.MapError(err)
	}

	switch len(users) {
	case 0:
		s.decoy.Compare(password)
		return false, nil
	case 1:
		return auth.ComparePassword(users[0].PasswordHash, password) == nil, nil
	default:
		s.logger.Warn("ambiguous username match", zap.String("username", username), zap.Int("rows", len(users)))
		s.decoy.Compare(password)
		return false, nil
	}
}

// Login authenticates the credentials and, on success, signs the session in
// and issues a login token.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, username, password string) (string, time.Time, error) {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}
	if !ok {
		s.publish(ctx, events.New(events.EventUserLoginFailed, username, nil))
		return "", time.Time{}, apperrors.NewUnauthorized(InvalidCredentialsMessage)
	}

	token, exp, err := s.tokenMgr.GenerateToken(username)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}

	sess.State.Clear()
	sess.State.SignIn(username)
	sess.State.LastActivity = time.Now().UTC()
	s.publish(ctx, events.New(events.EventUserLoggedIn, username, nil))
	return token, exp, nil
}

// Logout drops all session state. It never fails.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) {
	username := sess.State.Username
	sess.Destroy()
	if username != "" {
		s.publish(ctx, events.New(events.EventUserLoggedOut, username, nil))
	}
}

// CreateUser provisions a new account.
func (s *AuthService) CreateUser(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	existing, err := s.users.FindByUsername(ctx, username, repository.MatchCaseInsensitive)
	if err != nil {
		return apperrors.MapError(err)
	}
	if len(existing) > 0 {
		return apperrors.NewConflict("username already exists", map[string]any{"username": username})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.Create(ctx, &domain.User{Username: username, PasswordHash: hash}); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// SetPassword replaces the hash of an existing account.
func (s *AuthService) SetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, username, hash); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateCredentials(username, password string) error {
	details := map[string]any{}
	if username == "" {
		details["username"] = "required"
	}
	if password == "" {
		details["password"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("username and password are required", details)
	}
	if len(password) > 72 {
		return apperrors.NewValidationError("password too long", map[string]any{"password": "max 72 bytes"})
	}
	return nil
}
