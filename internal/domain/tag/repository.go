package tag

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Tag, error)
	GetByID(ctx context.Context, id int64) (*Tag, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]Tag, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := r.db.WithContext(ctx).Order("name").Order("id").Find(&tags).Error
	return tags, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]Tag, error) {
	out := make(map[int64]Tag, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}
