package user

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository handles all DB operations for users
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error

	// ListSubscriptions returns the authors userID follows, ordered by username.
	ListSubscriptions(ctx context.Context, userID int64, offset, limit int) ([]User, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := r.db.WithContext(ctx).
		Order("id").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) ListSubscriptions(ctx context.Context, userID int64, offset, limit int) ([]User, int64, error) {
	authors := r.db.WithContext(ctx).Model(&Subscribe{}).Select("author_id").Where("user_id = ?", userID)

	var total int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("id IN (?)", authors).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := r.db.WithContext(ctx).
		Where("id IN (?)", authors).
		Order("username").Order("id").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}
