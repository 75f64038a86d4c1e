package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

// TokenBlacklist stores revoked session tokens until they expire.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	Account   *entity.Account
	Token     string
	ExpiresAt time.Time
}

func (p *Principal) AccountID() string {
	if p == nil || p.Account == nil {
		return ""
	}
	return p.Account.ID
}

// IssuedToken is a freshly minted session.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// SessionService mints, checks and revokes session tokens.
type SessionService struct {
	jwt       *helpers.JWTManager
	accounts  repository.AccountRepository
	blacklist TokenBlacklist
	logger    *logrus.Logger
	now       func() time.Time
}

func NewSessionService(jwt *helpers.JWTManager, accounts repository.AccountRepository, blacklist TokenBlacklist, logger *logrus.Logger, now func() time.Time) *SessionService {
	if now == nil {
		now = time.Now
	}
	return &SessionService{jwt: jwt, accounts: accounts, blacklist: blacklist, logger: logger, now: now}
}

func (s *SessionService) Issue(accountID string) (IssuedToken, error) {
	tok, exp, err := s.jwt.Generate(accountID)
	if err != nil {
		return IssuedToken{}, ErrSessionUnavailable.Wrap(err)
	}
	return IssuedToken{Token: tok, ExpiresAt: exp}, nil
}

// Authenticate resolves the request's session token into a Principal.
// The cookie wins over an Authorization bearer header. A blacklist outage
// rejects the request rather than letting a possibly revoked token through.
func (s *SessionService) Authenticate(ctx context.Context, r *http.Request) (*Principal, error) {
	token := helpers.TokenFromRequest(r)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	revoked, err := s.blacklist.Contains(ctx, token)
	if err != nil {
		s.logger.WithError(err).Error("token blacklist lookup failed")
		return nil, ErrSessionUnavailable.Wrap(err)
	}
	if revoked {
		return nil, ErrRevoked
	}

	claims, err := s.jwt.Parse(token)
	if err != nil {
		if errors.Is(err, helpers.ErrMissingSecret) {
			return nil, ErrSessionUnavailable.Wrap(err)
		}
		return nil, ErrInvalidToken.Wrap(err)
	}

	acc, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, Internal(err)
	}
	acc.PasswordHash = ""

	p := &Principal{Account: acc, Token: token}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Revoke blacklists token for the rest of its lifetime. Already expired or
// unparseable tokens need no record.
func (s *SessionService) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Add(ctx, token, ttl); err != nil {
		return Internal(err)
	}
	return nil
}
