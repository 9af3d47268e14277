package repository

import (
	"context"
	"strings"

	"filesmanager/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).First(&u, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count)
	return count > 0, tx.Error
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count)
	return count, tx.Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
