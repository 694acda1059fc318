// Package seed загружает справочники (ингредиенты и теги) из файлов.
package seed

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/tag"
	"foodgram/internal/pkg/validator"
)

const batchSize = 500

var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadIngredients parses a JSON array of {name, measurement_unit} objects or
// a CSV file with name,measurement_unit rows. Values are lowercased.
func ReadIngredients(r io.Reader, format string) ([]ingredient.Ingredient, error) {
	var items []ingredient.Ingredient
	switch strings.ToLower(format) {
	case "json":
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, fmt.Errorf("decode ingredients json: %w", err)
		}
	case "csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = 2
		records, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read ingredients csv: %w", err)
		}
		for _, rec := range records {
			items = append(items, ingredient.Ingredient{Name: rec[0], MeasurementUnit: rec[1]})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	out := items[:0]
	for _, it := range items {
		it.ID = 0
		it.Name = strings.ToLower(strings.TrimSpace(it.Name))
		it.MeasurementUnit = strings.ToLower(strings.TrimSpace(it.MeasurementUnit))
		if it.Name == "" || it.MeasurementUnit == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// ImportIngredients inserts items and skips (name, measurement_unit) pairs already present.
// Returns the number of inserted rows.
func ImportIngredients(ctx context.Context, db *gorm.DB, items []ingredient.Ingredient) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&items, batchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("insert ingredients: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// FieldError describes an invalid tag in the seed file.
type FieldError struct {
	Index  int
	Fields map[string][]string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("tag #%d is invalid: %v", e.Index, e.Fields)
}

// ReadTags parses a JSON array of tags and validates every entry.
func ReadTags(r io.Reader) ([]tag.Tag, error) {
	var tags []tag.Tag
	if err := json.NewDecoder(r).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags json: %w", err)
	}
	for i := range tags {
		tags[i].ID = 0
		if fields := validator.Struct(&tags[i]); fields != nil {
			return nil, &FieldError{Index: i, Fields: fields}
		}
	}
	return tags, nil
}

func ImportTags(ctx context.Context, db *gorm.DB, tags []tag.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tags)
	if res.Error != nil {
		return 0, fmt.Errorf("insert tags: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// IngredientsFile reads and imports an ingredients file; the format comes from the extension.
func IngredientsFile(ctx context.Context, db *gorm.DB, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	items, err := ReadIngredients(f, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return 0, err
	}
	return ImportIngredients(ctx, db, items)
}

func TagsFile(ctx context.Context, db *gorm.DB, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	tags, err := ReadTags(f)
	if err != nil {
		return 0, err
	}
	return ImportTags(ctx, db, tags)
}
