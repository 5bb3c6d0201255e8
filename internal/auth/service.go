package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openroom/openroom-server/internal/session"
	"github.com/openroom/openroom-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when trying to register with existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidUsername is returned when username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidToken is returned when a token fails signature or expiry checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSessionExpired is returned when a validly-signed token points at a
	// session the store no longer holds.
	ErrSessionExpired = errors.New("session expired")
)

// Service provides authentication operations: account registration, login
// with session issuance, and admission of bearer tokens into identities.
type Service struct {
	users      store.UserStore
	sessions   session.Store
	jwtConfig  *JWTConfig
	sessionTTL time.Duration
}

// NewService creates a new authentication service.
func NewService(users store.UserStore, sessions session.Store, jwtConfig *JWTConfig, sessionTTL time.Duration) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		jwtConfig:  jwtConfig,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user with hashed password, opens a session, and
// returns a signed token.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return "", ErrInvalidUsername
	}
	if len(password) < 6 {
		return "", ErrInvalidPassword
	}

	existing, err := s.users.GetUserByUsername(ctx, username)
	if err == nil && existing != nil {
		return "", ErrUserExists
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, hashedPassword)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	return s.openSession(ctx, user.Username)
}

// Login validates credentials, opens a session, and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return "", ErrInvalidCredentials
	}

	return s.openSession(ctx, user.Username)
}

// Admit converts a bearer token into an authenticated identity. Two distinct
// trust boundaries: the signature/expiry check proves issuance, the session
// lookup proves the login has not been revoked or expired.
func (s *Service) Admit(ctx context.Context, token string) (identity, username string, err error) {
	if token == "" {
		return "", "", ErrInvalidToken
	}

	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	username, err = s.sessions.Resolve(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", "", ErrSessionExpired
		}
		return "", "", fmt.Errorf("resolve session: %w", err)
	}

	return claims.SessionID, username, nil
}

// Logout revokes the session behind a token and returns its identity so the
// caller can drop any live connection.
func (s *Service) Logout(ctx context.Context, token string) (string, error) {
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return "", fmt.Errorf("delete session: %w", err)
	}

	return claims.SessionID, nil
}

// openSession mints a fresh identity for this login and binds it to the
// display name for the session TTL.
func (s *Service) openSession(ctx context.Context, username string) (string, error) {
	sessionID := uuid.NewString()

	if err := s.sessions.Put(ctx, sessionID, username, s.sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, sessionID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}
