package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/database"
)

// Store runs the generic queries behind a Resource.
type Store interface {
	List(ctx context.Context, res *Resource, query string, filters map[string]string, offset, limit int) ([]map[string]any, int64, error)
	Get(ctx context.Context, res *Resource, id int64) (map[string]any, error)
	Create(ctx context.Context, row any) error
	Delete(ctx context.Context, res *Resource, id int64) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) base(ctx context.Context, res *Resource) *gorm.DB {
	db := s.db.WithContext(ctx).Table(res.Table)
	for _, j := range res.Joins {
		db = db.Joins(j)
	}
	return db
}

func (s *store) List(ctx context.Context, res *Resource, query string, filters map[string]string, offset, limit int) ([]map[string]any, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if q := strings.ToLower(strings.TrimSpace(query)); q != "" && len(res.SearchFields) > 0 {
			conds := make([]string, 0, len(res.SearchFields))
			args := make([]any, 0, len(res.SearchFields))
			for _, field := range res.SearchFields {
				conds = append(conds, "LOWER("+field+") LIKE ?")
				args = append(args, "%"+q+"%")
			}
			db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
		for _, f := range res.ListFilter {
			if v, ok := filters[f.Param]; ok && v != "" {
				db = db.Where(f.Clause, v)
			}
		}
		return db
	}

	var total int64
	if err := s.base(ctx, res).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", res.Name, err)
	}

	var rows []map[string]any
	err := s.base(ctx, res).Scopes(scope).
		Select(res.ListDisplay).
		Order(res.ordering()).
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", res.Name, err)
	}
	for _, row := range rows {
		fillEmpty(row, res.emptyValue())
	}
	return rows, total, nil
}

func (s *store) Get(ctx context.Context, res *Resource, id int64) (map[string]any, error) {
	var rows []map[string]any
	err := s.base(ctx, res).
		Select(res.detailColumns()).
		Where(res.Table+".id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", res.Name, err)
	}
	if len(rows) == 0 {
		return nil, ErrObjectNotFound
	}
	fillEmpty(rows[0], res.emptyValue())
	return rows[0], nil
}

func (s *store) Create(ctx context.Context, row any) error {
	err := s.db.WithContext(ctx).Create(row).Error
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return fmt.Errorf("create: %w", err)
}

func (s *store) Delete(ctx context.Context, res *Resource, id int64) error {
	var err error
	if res.DeleteFunc != nil {
		err = res.DeleteFunc(ctx, id)
	} else {
		result := s.db.WithContext(ctx).Exec("DELETE FROM "+res.Table+" WHERE id = ?", id)
		err = result.Error
		if err == nil && result.RowsAffected == 0 {
			return ErrObjectNotFound
		}
	}
	if err == nil {
		return nil
	}
	if database.ClassifyConstraint(err) == database.ForeignKeyViolation {
		return ErrReferenced
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrObjectNotFound
	}
	return err
}

// fillEmpty заменяет пустые значения на EmptyValueDisplay.
func fillEmpty(row map[string]any, empty string) {
	for k, v := range row {
		switch val := v.(type) {
		case nil:
			row[k] = empty
		case string:
			if val == "" {
				row[k] = empty
			}
		case []byte:
			if len(val) == 0 {
				row[k] = empty
			} else {
				row[k] = string(val)
			}
		}
	}
}
