package auth

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"foodgram/internal/domain/user"
	"foodgram/internal/pkg/jwt"
)

// Authenticator is implemented by user.Service.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

type Service struct {
	users Authenticator
	repo  Repository
	jwt   *jwt.Service
	log   logrus.FieldLogger
}

func NewService(users Authenticator, repo Repository, jwtService *jwt.Service, log logrus.FieldLogger) *Service {
	return &Service{users: users, repo: repo, jwt: jwtService, log: log}
}

// Login issues a token for valid credentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, _, err := s.jwt.GenerateToken(u.ID, u.IsStaff)
	if err != nil {
		return "", err
	}
	s.log.WithField("user_id", u.ID).Info("user logged in")
	return token, nil
}

// Logout puts the token id on the revocation list until the token expires.
func (s *Service) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return ErrMissingClaims
	}
	expires := time.Now()
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return s.repo.Revoke(ctx, &RevokedToken{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: expires,
	})
}

// IsRevoked lets the auth middleware reject logged out tokens.
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.repo.IsRevoked(ctx, jti)
}

// PurgeExpired drops revocation rows whose tokens can no longer validate anyway.
func (s *Service) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.DeleteExpired(ctx, now)
}
