package recipe

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/domain/ingredient"
)

func TestValidateCookingTime(t *testing.T) {
	assert.Error(t, ValidateCookingTime(0))
	assert.Error(t, ValidateCookingTime(-5))
	assert.NoError(t, ValidateCookingTime(1))
}

func TestValidateAmount(t *testing.T) {
	assert.EqualError(t, ValidateAmount(0), MinAmountMessage)
	assert.NoError(t, ValidateAmount(1))
}

func TestDuplicateIngredients(t *testing.T) {
	items := []IngredientInput{{ID: 3, Amount: 1}, {ID: 5, Amount: 1}, {ID: 3, Amount: 2}, {ID: 3, Amount: 4}, {ID: 5, Amount: 1}}
	dups := DuplicateIngredients(items)
	assert.Equal(t, []int64{3, 5}, dups)

	known := map[int64]ingredient.Ingredient{3: {ID: 3, Name: "eggs"}, 5: {ID: 5, Name: "salt"}}
	assert.Equal(t, "duplicate ingredients: [id: 3 (eggs), id: 5 (salt)]", DuplicateIngredientsMessage(dups, known))

	assert.Empty(t, DuplicateIngredients([]IngredientInput{{ID: 1}, {ID: 2}}))
}

func TestParseFilter(t *testing.T) {
	q, err := url.ParseQuery("author=7&tags=breakfast&tags=lunch&is_favorited=1&is_in_shopping_cart=false")
	require.NoError(t, err)

	f, verr := ParseFilter(q)
	require.Nil(t, verr)
	assert.EqualValues(t, 7, f.AuthorID)
	assert.Equal(t, []string{"breakfast", "lunch"}, f.Tags)
	require.NotNil(t, f.IsFavorited)
	assert.True(t, *f.IsFavorited)
	require.NotNil(t, f.IsInShoppingCart)
	assert.False(t, *f.IsInShoppingCart)

	f, verr = ParseFilter(url.Values{})
	require.Nil(t, verr)
	assert.Nil(t, f.IsFavorited)
	assert.Zero(t, f.AuthorID)
}

func TestParseFilter_Invalid(t *testing.T) {
	q, _ := url.ParseQuery("author=abc&is_favorited=maybe")
	_, verr := ParseFilter(q)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "author")
	assert.Contains(t, verr.Fields, "is_favorited")
	assert.NotContains(t, verr.Fields, "is_in_shopping_cart")
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.True(t, verr.Empty())
	verr.Add("tags", "a")
	verr.Add("cooking_time", "b")
	verr.Add("tags", "c")
	assert.False(t, verr.Empty())
	assert.Equal(t, "validation failed: cooking_time: b; tags: a c", verr.Error())
}
