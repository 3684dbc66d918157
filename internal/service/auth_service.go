package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mini_blog/internal/notify"
	"mini_blog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const defaultSessionTTL = 24 * time.Hour

// Domain errors for auth flows.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("invalid session")
)

// AuthService registers users and checks logins.
//
// Passwords are stored and compared as plaintext. This matches the existing
// data in deployed databases and is a known security defect.
type AuthService struct {
	authRepo repository.Authorization
	notifier notify.Notifier
	secret   []byte
	ttl      time.Duration
}

func NewAuthService(repo repository.Authorization, notifier notify.Notifier, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AuthService{authRepo: repo, notifier: notifier, secret: []byte(secret), ttl: ttl}
}

// Register creates the user, then notifies. The notification cannot undo
// or fail an insert that already committed.
func (s *AuthService) Register(ctx context.Context, username, password string) (int, error) {
	if username == "" || password == "" {
		return 0, ErrMissingCredentials
	}

	id, err := s.authRepo.Create(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}

	_ = s.notifier.Notify(ctx, "New user registered: "+username)
	return id, nil
}

// Claims carried by the session cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Login returns a signed session token when username and password match a
// stored user exactly.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrMissingCredentials
	}

	u, err := s.authRepo.GetByCredentials(ctx, username, password)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(u.ID, u.Username)
}

// ParseSession validates a session token and returns its username.
func (s *AuthService) ParseSession(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Username == "" {
		return "", ErrInvalidSession
	}
	return claims.Username, nil
}

func (s *AuthService) issueToken(userID int, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   userID,
		Username: username,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}
