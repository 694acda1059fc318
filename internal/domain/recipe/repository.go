package recipe

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/domain/user"
)

type Repository interface {
	Create(ctx context.Context, r *Recipe, amounts []IngredientAmount, tagIDs []int64) error
	Update(ctx context.Context, r *Recipe, amounts []IngredientAmount, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error

	// Get loads a recipe without relations.
	Get(ctx context.Context, id int64) (*Recipe, error)
	// GetFull loads a recipe with author, tags and ingredient amounts.
	GetFull(ctx context.Context, id int64) (*Recipe, error)

	// List pages recipes narrowed by scope, newest first.
	List(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]Recipe, int64, error)

	PreviewsByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]user.RecipePreview, map[int64]int64, error)
	ShoppingList(ctx context.Context, userID int64) ([]ShoppingItem, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *Recipe, amounts []IngredientAmount, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		return replaceLinks(tx, rec.ID, amounts, tagIDs)
	})
}

func (r *repository) Update(ctx context.Context, rec *Recipe, amounts []IngredientAmount, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Recipe{}).Where("id = ?", rec.ID).Updates(map[string]any{
			"name":         rec.Name,
			"text":         rec.Text,
			"cooking_time": rec.CookingTime,
			"image":        rec.Image,
			"image_key":    rec.ImageKey,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return replaceLinks(tx, rec.ID, amounts, tagIDs)
	})
}

// replaceLinks swaps the ingredient amounts and tag links of a recipe.
func replaceLinks(tx *gorm.DB, recipeID int64, amounts []IngredientAmount, tagIDs []int64) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&IngredientAmount{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&RecipeTag{}).Error; err != nil {
		return err
	}

	if len(amounts) > 0 {
		rows := make([]IngredientAmount, len(amounts))
		for i, a := range amounts {
			rows[i] = IngredientAmount{RecipeID: recipeID, IngredientID: a.IngredientID, Amount: a.Amount}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	if len(tagIDs) > 0 {
		links := make([]RecipeTag, len(tagIDs))
		for i, id := range tagIDs {
			links[i] = RecipeTag{RecipeID: recipeID, TagID: id}
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the recipe with its amounts, tag links, favorites and cart rows.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&Favorite{}, &ShoppingCart{}, &IngredientAmount{}, &RecipeTag{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
}

func (r *repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	var rec Recipe
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) GetFull(ctx context.Context, id int64) (*Recipe, error) {
	var rec Recipe
	err := withRelations(r.db.WithContext(ctx)).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) List(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]Recipe, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []Recipe
	err := withRelations(r.db.WithContext(ctx).Model(&Recipe{}).Scopes(scope)).
		Order("recipes.pub_date DESC").Order("recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	return recipes, total, err
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("IngredientAmounts", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_amounts.id") }).
		Preload("IngredientAmounts.Ingredient")
}

// PreviewsByAuthors returns the newest recipes per author (all of them when
// limit < 0) and the total recipe count per author.
func (r *repository) PreviewsByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]user.RecipePreview, map[int64]int64, error) {
	previews := make(map[int64][]user.RecipePreview, len(authorIDs))
	counts := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return previews, counts, nil
	}

	var recipes []Recipe
	err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("pub_date DESC").Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, nil, err
	}

	for i := range recipes {
		rec := &recipes[i]
		counts[rec.AuthorID]++
		if limit >= 0 && len(previews[rec.AuthorID]) >= limit {
			continue
		}
		previews[rec.AuthorID] = append(previews[rec.AuthorID], ToShort(rec))
	}
	return previews, counts, nil
}

// ShoppingList sums amounts per (ingredient name, unit) over the user's cart.
func (r *repository) ShoppingList(ctx context.Context, userID int64) ([]ShoppingItem, error) {
	var items []ShoppingItem
	err := r.db.WithContext(ctx).
		Table("ingredient_amounts AS ia").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ia.amount) AS total").
		Joins("JOIN ingredients i ON i.id = ia.ingredient_id").
		Joins("JOIN shopping_carts sc ON sc.recipe_id = ia.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name").Order("i.measurement_unit").
		Scan(&items).Error
	return items, err
}
