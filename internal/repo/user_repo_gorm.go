package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"devconnector/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if isDupKey(err) {
		return domain.ErrUserExists
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteAccount removes posts, then the profile, then the user, in one
// transaction. A missing profile or user row is not an error.
func (r *UserRepo) DeleteAccount(ctx context.Context, id string) (int64, error) {
	var posts int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 顺序：帖子 → 资料 → 用户，任一步失败整体回滚
		res := tx.Where("user_id = ?", id).Delete(&domain.Post{})
		if res.Error != nil {
			return res.Error
		}
		posts = res.RowsAffected
		if err := tx.Where("user_id = ?", id).Delete(&domain.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.User{}).Error
	})
	if err != nil {
		return 0, err
	}
	return posts, nil
}

func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers without an error translator
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
