package ingredient

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Ingredient, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]Ingredient, error)

	// Search returns names starting with query first, then names that only
	// contain it. Both groups are ordered by name. Empty query lists everything.
	Search(ctx context.Context, query string) ([]Ingredient, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Ingredient, error) {
	var ing Ingredient
	err := r.db.WithContext(ctx).First(&ing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]Ingredient, error) {
	out := make(map[int64]Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *repository) Search(ctx context.Context, query string) ([]Ingredient, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		var all []Ingredient
		err := r.db.WithContext(ctx).Order("name").Order("id").Find(&all).Error
		return all, err
	}

	escaped := escapeLike(query)

	var prefix []Ingredient
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, escaped+"%").
		Order("name").Order("id").
		Find(&prefix).Error
	if err != nil {
		return nil, err
	}

	var contains []Ingredient
	err = r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escaped+"%").
		Where(`LOWER(name) NOT LIKE ? ESCAPE '\'`, escaped+"%").
		Order("name").Order("id").
		Find(&contains).Error
	if err != nil {
		return nil, err
	}

	return append(prefix, contains...), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
