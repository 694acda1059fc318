package recipe

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrForbidden      = errors.New("only the author or staff may change this recipe")
)

const (
	msgFavoriteExists    = "user %s has already favorited recipe %s"
	msgFavoriteNotExists = "user %s has not favorited recipe %s"
	msgCartExists        = "recipe %[2]s is already in the shopping cart of user %[1]s"
	msgCartNotExists     = "recipe %[2]s is not in the shopping cart of user %[1]s"
)

// ValidationError carries field scoped messages, rendered as {"field": ["..."]}.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
