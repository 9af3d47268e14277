package auth

import (
	"context"
	"time"

	"filesmanager/internal/domain"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type SessionStore interface {
	Put(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}
