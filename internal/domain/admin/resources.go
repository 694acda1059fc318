package admin

import (
	"context"
	"errors"

	"foodgram/internal/domain/recipe"
)

// RecipeDeleter removes a recipe together with its image and links.
type RecipeDeleter interface {
	Delete(ctx context.Context, userID int64, isStaff bool, id int64) error
}

// Resources returns the foodgram admin site.
func Resources(recipes RecipeDeleter) *Registry {
	return NewRegistry(
		Resource{
			Name:  "users",
			Table: "users",
			ListDisplay: []string{
				"users.id", "users.username", "users.email",
				"users.first_name", "users.last_name", "users.is_staff",
			},
			DetailDisplay: []string{
				"users.id", "users.username", "users.email",
				"users.first_name", "users.last_name", "users.is_staff",
				"users.created_at",
				"(SELECT COUNT(*) FROM recipes WHERE recipes.author_id = users.id) AS recipes_count",
				"(SELECT COUNT(*) FROM subscribes WHERE subscribes.author_id = users.id) AS subscribers_count",
			},
			SearchFields: []string{"users.username", "users.email"},
			ListFilter: []Filter{
				{Param: "is_staff", Clause: "users.is_staff = ?"},
			},
			NewForm: func() Form { return &UserForm{} },
		},
		Resource{
			Name:  "subscribes",
			Table: "subscribes",
			Joins: []string{
				"JOIN users AS u ON u.id = subscribes.user_id",
				"JOIN users AS a ON a.id = subscribes.author_id",
			},
			ListDisplay:  []string{"subscribes.id", "u.username AS user", "a.username AS author"},
			SearchFields: []string{"u.username", "a.username"},
		},
		Resource{
			Name:         "ingredients",
			Table:        "ingredients",
			ListDisplay:  []string{"ingredients.id", "ingredients.name", "ingredients.measurement_unit"},
			SearchFields: []string{"ingredients.name"},
			Ordering:     "ingredients.name, ingredients.id",
			NewForm:      func() Form { return &IngredientForm{} },
		},
		Resource{
			Name:        "tags",
			Table:       "tags",
			ListDisplay: []string{"tags.id", "tags.name", "tags.slug", "tags.color"},
			Ordering:    "tags.name, tags.id",
			NewForm:     func() Form { return &TagForm{} },
		},
		Resource{
			Name:        "recipes",
			Table:       "recipes",
			Joins:       []string{"JOIN users AS a ON a.id = recipes.author_id"},
			ListDisplay: []string{"recipes.id", "recipes.name", "a.username AS author"},
			DetailDisplay: []string{
				"recipes.id", "recipes.name", "a.username AS author",
				"recipes.text", "recipes.cooking_time", "recipes.image", "recipes.pub_date",
				"(SELECT COUNT(*) FROM favorites WHERE favorites.recipe_id = recipes.id) AS favorites_count",
			},
			SearchFields: []string{"a.username", "recipes.name"},
			ListFilter: []Filter{
				{Param: "author", Clause: "a.username = ?"},
				{Param: "name", Clause: "recipes.name = ?"},
				{Param: "tags", Clause: "recipes.id IN (SELECT rt.recipe_id FROM recipe_tags AS rt JOIN tags AS t ON t.id = rt.tag_id WHERE t.slug = ?)"},
			},
			Ordering: "recipes.pub_date DESC, recipes.id DESC",
			DeleteFunc: func(ctx context.Context, id int64) error {
				err := recipes.Delete(ctx, 0, true, id)
				if errors.Is(err, recipe.ErrRecipeNotFound) {
					return ErrObjectNotFound
				}
				return err
			},
		},
		Resource{
			Name:  "ingredient_amounts",
			Table: "ingredient_amounts",
			Joins: []string{
				"JOIN recipes AS r ON r.id = ingredient_amounts.recipe_id",
				"JOIN ingredients AS i ON i.id = ingredient_amounts.ingredient_id",
			},
			ListDisplay: []string{
				"ingredient_amounts.id", "r.name AS recipe", "i.name AS ingredient",
				"i.measurement_unit", "ingredient_amounts.amount",
			},
			SearchFields: []string{"r.name", "i.name"},
		},
		Resource{
			Name:  "favorites",
			Table: "favorites",
			Joins: []string{
				"JOIN users AS u ON u.id = favorites.user_id",
				"JOIN recipes AS r ON r.id = favorites.recipe_id",
			},
			ListDisplay:  []string{"favorites.id", "u.username AS user", "r.name AS recipe"},
			SearchFields: []string{"u.username", "r.name"},
		},
		Resource{
			Name:  "shopping_carts",
			Table: "shopping_carts",
			Joins: []string{
				"JOIN users AS u ON u.id = shopping_carts.user_id",
				"JOIN recipes AS r ON r.id = shopping_carts.recipe_id",
			},
			ListDisplay:  []string{"shopping_carts.id", "u.username AS user", "r.name AS recipe"},
			SearchFields: []string{"u.username", "r.name"},
		},
	)
}
