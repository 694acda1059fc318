package relation

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"foodgram/internal/database"
)

// Party is one side of a relation: id plus the name used in error messages.
type Party struct {
	ID   int64
	Name string
}

// Messages are fmt templates; %[1]s is the user, %[2]s the target.
type Messages struct {
	AlreadyExists string
	NotExists     string
	Self          string
}

// Config describes one join table (favorites, shopping_carts, subscribes).
type Config[T any] struct {
	UserColumn   string
	TargetColumn string
	NewRow       func(userID, targetID int64) *T
	ForbidSelf   bool
	Messages     Messages
}

// Toggle: общий переключатель связи пользователь → цель (два состояния: нет / есть).
// Гонки двух одновременных Add разрешает уникальный индекс в БД.
type Toggle[T any] struct {
	db  *gorm.DB
	cfg Config[T]
}

func New[T any](db *gorm.DB, cfg Config[T]) *Toggle[T] {
	return &Toggle[T]{db: db, cfg: cfg}
}

// Add moves absent → present.
func (t *Toggle[T]) Add(ctx context.Context, user, target Party) error {
	if t.cfg.ForbidSelf && user.ID == target.ID {
		return t.selfError()
	}

	row := t.cfg.NewRow(user.ID, target.ID)
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		switch database.ClassifyConstraint(err) {
		case database.UniqueViolation:
			return t.relationError(ErrAlreadyExists, t.cfg.Messages.AlreadyExists, user, target)
		case database.CheckViolation:
			if t.cfg.ForbidSelf {
				return t.selfError()
			}
		}
		return fmt.Errorf("create relation %s=%d %s=%d: %w",
			t.cfg.UserColumn, user.ID, t.cfg.TargetColumn, target.ID, err)
	}
	return nil
}

// Remove moves present → absent.
func (t *Toggle[T]) Remove(ctx context.Context, user, target Party) error {
	res := t.db.WithContext(ctx).
		Where(t.cfg.UserColumn+" = ? AND "+t.cfg.TargetColumn+" = ?", user.ID, target.ID).
		Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete relation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return t.relationError(ErrNotExists, t.cfg.Messages.NotExists, user, target)
	}
	return nil
}

func (t *Toggle[T]) Exists(ctx context.Context, userID, targetID int64) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(new(T)).
		Where(t.cfg.UserColumn+" = ? AND "+t.cfg.TargetColumn+" = ?", userID, targetID).
		Count(&count).Error
	return count > 0, err
}

// Members returns which of targetIDs are related to userID.
// Anonymous callers (userID == 0) get an empty set.
func (t *Toggle[T]) Members(ctx context.Context, userID int64, targetIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return out, nil
	}

	var ids []int64
	err := t.db.WithContext(ctx).Model(new(T)).
		Where(t.cfg.UserColumn+" = ? AND "+t.cfg.TargetColumn+" IN ?", userID, targetIDs).
		Pluck(t.cfg.TargetColumn, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// TargetsSubquery selects target ids related to userID, for use in WHERE ... IN (?).
func (t *Toggle[T]) TargetsSubquery(ctx context.Context, userID int64) *gorm.DB {
	return t.db.WithContext(ctx).Model(new(T)).
		Select(t.cfg.TargetColumn).
		Where(t.cfg.UserColumn+" = ?", userID)
}

func (t *Toggle[T]) selfError() error {
	return &Error{Err: ErrSelfRelation, Message: t.cfg.Messages.Self}
}

func (t *Toggle[T]) relationError(sentinel error, template string, user, target Party) error {
	return &Error{Err: sentinel, Message: fmt.Sprintf(template, user.Name, target.Name)}
}
