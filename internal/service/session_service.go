package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid session token")
)

// touchInterval bounds how often a session's idle expiry is pushed forward.
const touchInterval = time.Minute

type SessionService struct {
	sessionRepo repository.SessionRepository
	secret      []byte
	idleTimeout time.Duration
	now         func() time.Time
}

func NewSessionService(sessionRepo repository.SessionRepository, secret string, idleTimeout time.Duration) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		secret:      []byte(secret),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Issue creates a session for user and returns the signed token to hand to
// the browser.
func (s *SessionService) Issue(ctx context.Context, user *domain.User) (string, *domain.Session, error) {
	now := s.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: now.Add(s.idleTimeout),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.sign(session.ID, now)
	if err != nil {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return "", nil, err
	}

	return token, session, nil
}

// Resolve returns the live session behind token and extends its idle
// expiry. Expired sessions are deleted and reported as ErrSessionNotFound.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	id, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	now := s.now()
	if session.Expired(now) {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, ErrSessionNotFound
	}

	if session.ExpiresAt.Sub(now) < s.idleTimeout-s.touchAfter() {
		session.ExpiresAt = now.Add(s.idleTimeout)
		if err := s.sessionRepo.Touch(ctx, session.ID, session.ExpiresAt); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// Destroy removes the session behind token. Unknown or malformed tokens are
// not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := s.parse(token)
	if err != nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, id)
}

// touchAfter is how long a session may go without its expiry being pushed
// forward. Timeouts shorter than two touch intervals slide at half the
// timeout.
func (s *SessionService) touchAfter() time.Duration {
	if s.idleTimeout < 2*touchInterval {
		return s.idleTimeout / 2
	}
	return touchInterval
}

// SweepExpired deletes every session whose expiry has passed.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}

func (s *SessionService) sign(id uuid.UUID, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       id.String(),
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SessionService) parse(tokenString string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
