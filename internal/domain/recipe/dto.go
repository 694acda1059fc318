package recipe

import (
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
)

type IngredientInput struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// Request: тело POST/PATCH/PUT /recipes/. Image обязателен только при создании.
type Request struct {
	Ingredients []IngredientInput `json:"ingredients"`
	Tags        []int64           `json:"tags"`
	Image       *string           `json:"image"`
	Name        string            `json:"name" binding:"required,max=254"`
	Text        string            `json:"text" binding:"required"`
	CookingTime *int              `json:"cooking_time"`
}

type IngredientAmountResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type Response struct {
	ID               int64                      `json:"id"`
	Tags             []tag.Tag                  `json:"tags"`
	Author           user.Response              `json:"author"`
	Ingredients      []IngredientAmountResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            *string                    `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// flags computed per request for the viewer
type flags struct {
	favorited  map[int64]bool
	inCart     map[int64]bool
	subscribed map[int64]bool
}

func toResponse(r *Recipe, f flags) Response {
	tags := r.Tags
	if tags == nil {
		tags = []tag.Tag{}
	}
	ingredients := make([]IngredientAmountResponse, 0, len(r.IngredientAmounts))
	for _, a := range r.IngredientAmounts {
		item := IngredientAmountResponse{ID: a.IngredientID, Amount: a.Amount}
		if a.Ingredient != nil {
			item.Name = a.Ingredient.Name
			item.MeasurementUnit = a.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	var author user.Response
	if r.Author != nil {
		author = user.ToResponse(r.Author, f.subscribed[r.AuthorID])
	}

	return Response{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      f.favorited[r.ID],
		IsInShoppingCart: f.inCart[r.ID],
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

// ToShort is the {id,name,image,cooking_time} shape used by favorites,
// the shopping cart and subscriptions.
func ToShort(r *Recipe) user.RecipePreview {
	return user.RecipePreview{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
