package recipe

import (
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/domain/ingredient"
)

const (
	MinCookingTime = 1
	MinAmount      = 1

	MinCookingTimeMessage = "Cooking time cannot be less than 1 minute."
	MinAmountMessage      = "Ingredient amount cannot be less than 1."
	NoIngredientsMessage  = "At least one ingredient is required."
	NoTagsMessage         = "At least one tag is required."
	RequiredMessage       = "This field is required."
)

var (
	errCookingTime = errors.New(MinCookingTimeMessage)
	errAmount      = errors.New(MinAmountMessage)
)

func ValidateCookingTime(minutes int) error {
	if minutes < MinCookingTime {
		return errCookingTime
	}
	return nil
}

func ValidateAmount(amount int) error {
	if amount < MinAmount {
		return errAmount
	}
	return nil
}

// DuplicateIngredients returns the ids listed more than once, in order of
// first repetition.
func DuplicateIngredients(items []IngredientInput) []int64 {
	seen := make(map[int64]int, len(items))
	var dups []int64
	for _, it := range items {
		seen[it.ID]++
		if seen[it.ID] == 2 {
			dups = append(dups, it.ID)
		}
	}
	return dups
}

// DuplicateIngredientsMessage renders "duplicate ingredients: [id: 3 (eggs)]".
func DuplicateIngredientsMessage(ids []int64, known map[int64]ingredient.Ingredient) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("id: %d (%s)", id, known[id].Name))
	}
	return "duplicate ingredients: [" + strings.Join(parts, ", ") + "]"
}

func missingMessage(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// uniqueIDs keeps the first occurrence of every id.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
