package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/tag"
	"foodgram/internal/pkg/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", t.Name()), logger.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, append(ingredient.Models(), tag.Models()...)...))
	return db
}

func TestReadIngredients_JSONLowercases(t *testing.T) {
	items, err := ReadIngredients(strings.NewReader(`[
		{"name": "Абрикосовое варенье", "measurement_unit": "Г"},
		{"name": "  ", "measurement_unit": "г"}
	]`), "json")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "абрикосовое варенье", items[0].Name)
	assert.Equal(t, "г", items[0].MeasurementUnit)
}

func TestReadIngredients_CSV(t *testing.T) {
	items, err := ReadIngredients(strings.NewReader("Salt,G\nmilk,ml\n"), "csv")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ingredient.Ingredient{Name: "salt", MeasurementUnit: "g"}, items[0])

	_, err = ReadIngredients(strings.NewReader("salt\n"), "csv")
	assert.Error(t, err)

	_, err = ReadIngredients(strings.NewReader(""), "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportIngredients_SkipsDuplicates(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	items := []ingredient.Ingredient{{Name: "salt", MeasurementUnit: "g"}, {Name: "milk", MeasurementUnit: "ml"}}
	n, err := ImportIngredients(ctx, db, items)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = ImportIngredients(ctx, db, []ingredient.Ingredient{
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "kg"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var total int64
	require.NoError(t, db.Model(&ingredient.Ingredient{}).Count(&total).Error)
	assert.Equal(t, int64(3), total)
}

func TestTagsFile(t *testing.T) {
	db := setupDB(t)
	path := filepath.Join(t.TempDir(), "tags.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "Завтрак", "color": "#E26C2D", "slug": "breakfast"},
		{"name": "Обед", "color": "#49B64E", "slug": "lunch"}
	]`), 0o644))

	n, err := TagsFile(context.Background(), db, path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = TagsFile(context.Background(), db, path)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReadTags_Invalid(t *testing.T) {
	_, err := ReadTags(strings.NewReader(`[{"name": "Ужин", "color": "purple", "slug": "dinner"}]`))
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.Index)
	assert.Contains(t, fe.Fields, "color")
}
