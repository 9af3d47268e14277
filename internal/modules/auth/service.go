package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"filesmanager/internal/domain"
	"filesmanager/internal/session"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service issues, resolves and revokes opaque session tokens and owns user
// registration. Every other module resolves tokens through it rather than
// touching the session store directly.
type Service struct {
	users      UserRepositoryInterface
	sessions   SessionStore
	sessionTTL time.Duration
}

func NewService(users UserRepositoryInterface, sessions SessionStore, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Service{users: users, sessions: sessions, sessionTTL: sessionTTL}
}

func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and opens a fresh session. Any mismatch, a
// missing field included, yields ErrUnauthorized without detail.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", ErrUnauthorized
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrUnauthorized
	}

	token := uuid.New().String()
	if err := s.sessions.Put(ctx, token, u.ID, s.sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Logout destroys the session. A second logout with the same token fails:
// the session is already gone.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	err := s.sessions.Delete(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Resolve maps a token to a user id. Pure lookup, no mutation.
func (s *Service) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrUnauthorized
	}
	userID, err := s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return 0, ErrUnauthorized
	}
	if err != nil {
		return 0, fmt.Errorf("resolve token: %w", err)
	}
	return userID, nil
}

func (s *Service) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}
