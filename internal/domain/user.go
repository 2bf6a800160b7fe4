package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}

func (User) TableName() string { return "users" }

// UserRef is the part of a user shown next to their profile.
type UserRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// FindByID and FindByEmail return ErrUserNotFound on a miss.
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// DeleteAccount removes the user's posts, profile and user row
	// atomically and reports how many posts went with them.
	DeleteAccount(ctx context.Context, id string) (posts int64, err error)
}
