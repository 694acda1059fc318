package recipe

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter: параметры списка рецептов.
type Filter struct {
	AuthorID         int64
	Tags             []string
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// ParseFilter reads author, tags (repeatable), is_favorited and is_in_shopping_cart.
func ParseFilter(q url.Values) (Filter, *ValidationError) {
	var f Filter
	verr := &ValidationError{}

	if raw := strings.TrimSpace(q.Get("author")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add("author", "Enter a number.")
		} else {
			f.AuthorID = id
		}
	}

	for _, slug := range q["tags"] {
		if slug = strings.TrimSpace(slug); slug != "" {
			f.Tags = append(f.Tags, slug)
		}
	}

	var ok bool
	if f.IsFavorited, ok = parseBool(q.Get("is_favorited")); !ok {
		verr.Add("is_favorited", "Select a valid choice.")
	}
	if f.IsInShoppingCart, ok = parseBool(q.Get("is_in_shopping_cart")); !ok {
		verr.Add("is_in_shopping_cart", "Select a valid choice.")
	}

	if !verr.Empty() {
		return Filter{}, verr
	}
	return f, nil
}

// parseBool returns nil for an absent value.
func parseBool(raw string) (*bool, bool) {
	var v bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, true
	case "1", "true", "yes", "on":
		v = true
	case "0", "false", "no", "off":
		v = false
	default:
		return nil, false
	}
	return &v, true
}
