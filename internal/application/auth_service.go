package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
	"github.com/oksasatya/signal-subscription/pkg/validation"
)

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService handles credentials: signup, login, logout and password reset.
type AuthService struct {
	accounts repository.AccountRepository
	hasher   helpers.PasswordHasher
	sessions *SessionService
	notifier Notifier
	search   repository.AccountSearch // optional
	logger   *logrus.Logger
	now      func() time.Time

	resetTTL time.Duration
	resetURL string

	// dummyHash is verified against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

type AuthConfig struct {
	ResetTTL time.Duration
	ResetURL string
}

func NewAuthService(accounts repository.AccountRepository, hasher helpers.PasswordHasher, sessions *SessionService,
	notifier Notifier, search repository.AccountSearch, logger *logrus.Logger, now func() time.Time, cfg AuthConfig) *AuthService {
	if now == nil {
		now = time.Now
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	dummy, _ := hasher.Hash("not-a-real-password")
	return &AuthService{
		accounts:  accounts,
		hasher:    hasher,
		sessions:  sessions,
		notifier:  notifier,
		search:    search,
		logger:    logger,
		now:       now,
		resetTTL:  cfg.ResetTTL,
		resetURL:  cfg.ResetURL,
		dummyHash: dummy,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.Account, IssuedToken, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, IssuedToken{}, Validation("Please provide name, email and password")
	}
	if len(in.Password) < validation.MinPasswordLength {
		return nil, IssuedToken{}, Validation("Password must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, IssuedToken{}, Internal(err)
	}
	acc := &entity.Account{Name: name, Email: email, PasswordHash: hash, Role: entity.RoleUser}
	if err := s.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, IssuedToken{}, ErrEmailTaken
		}
		return nil, IssuedToken{}, Internal(err)
	}

	tok, err := s.sessions.Issue(acc.ID)
	if err != nil {
		return nil, IssuedToken{}, err
	}

	if err := s.notifier.Welcome(ctx, acc); err != nil {
		s.logger.WithError(err).WithField("account_id", acc.ID).Warn("welcome email failed")
	}
	s.reindex(ctx, acc)

	acc.PasswordHash = ""
	return acc, tok, nil
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.Account, IssuedToken, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, IssuedToken{}, Validation("Please provide email and password")
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			return nil, IssuedToken{}, ErrInvalidCredentials
		}
		return nil, IssuedToken{}, Internal(err)
	}
	if !s.hasher.Verify(acc.PasswordHash, password) {
		return nil, IssuedToken{}, ErrInvalidCredentials
	}

	tok, err := s.sessions.Issue(acc.ID)
	if err != nil {
		return nil, IssuedToken{}, err
	}
	acc.PasswordHash = ""
	return acc, tok, nil
}

func (s *AuthService) Logout(ctx context.Context, p *Principal) error {
	if p == nil {
		return nil
	}
	return s.sessions.Revoke(ctx, p.Token, p.ExpiresAt)
}

// ForgotPassword never reveals whether the email exists; delivery problems are
// only logged.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return Validation("Please provide an email")
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return Internal(err)
	}

	token, digest, err := helpers.NewResetToken()
	if err != nil {
		return Internal(err)
	}
	expiresAt := s.now().Add(s.resetTTL)
	if err := s.accounts.SetResetToken(ctx, acc.ID, digest, expiresAt); err != nil {
		return Internal(err)
	}

	if err := s.notifier.PasswordReset(ctx, acc, s.resetLink(token), expiresAt); err != nil {
		s.logger.WithError(err).WithField("account_id", acc.ID).Warn("password reset email failed")
	}
	return nil
}

func (s *AuthService) resetLink(token string) string {
	u, err := url.Parse(s.resetURL)
	if err != nil || s.resetURL == "" {
		return s.resetURL + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" || password == "" {
		return Validation("Please provide token and password")
	}
	if len(password) < validation.MinPasswordLength {
		return Validation("Password must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Internal(err)
	}
	id, err := s.accounts.ConsumeResetToken(ctx, helpers.Digest(token), hash, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return Internal(err)
	}
	s.logger.WithField("account_id", id).Info("password reset completed")
	return nil
}

func (s *AuthService) reindex(ctx context.Context, a *entity.Account) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(ctx, a); err != nil {
		s.logger.WithError(err).WithField("account_id", a.ID).Warn("account index failed")
	}
}
