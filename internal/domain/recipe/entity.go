package recipe

import (
	"time"

	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
)

// Recipe: рецепт. Image хранит публичный URL картинки, ImageKey: ключ в хранилище.
type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:254;not null;index"`
	Image       *string   `json:"image" gorm:"size:1024"`
	ImageKey    string    `json:"-" gorm:"size:255"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	Author            *user.User         `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags              []tag.Tag          `json:"-" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	IngredientAmounts []IngredientAmount `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// IngredientAmount: количество ингредиента в рецепте. Один ингредиент на рецепт.
type IngredientAmount struct {
	ID           int64 `json:"id" gorm:"primaryKey"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_amount_recipe_ingredient"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;index;uniqueIndex:idx_amount_recipe_ingredient"`
	Amount       int   `json:"amount" gorm:"not null;check:chk_amount_positive,amount >= 1"`

	Recipe     *Recipe                `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient *ingredient.Ingredient `json:"-" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (IngredientAmount) TableName() string {
	return "ingredient_amounts"
}

// RecipeTag is a row of the recipe_tags join table created for Recipe.Tags.
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at"`

	User   *user.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe    `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingCart struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at"`

	User   *user.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe    `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Models lists recipe tables; users, ingredients and tags must be migrated first.
func Models() []any {
	return []any{&Recipe{}, &IngredientAmount{}, &Favorite{}, &ShoppingCart{}}
}

// ShoppingItem is one aggregated line of the shopping list.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Total           int64
}
