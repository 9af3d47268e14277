package domain

import "time"

// User is an account identified by a unique email. The password is kept
// only as a one-way bcrypt digest.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }
