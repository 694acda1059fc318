package pagination

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

const MaxLimit = 100

// Params: разобранные page/limit из query.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the list envelope returned by paginated endpoints.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// FromQuery reads ?page=&limit= falling back to defaultLimit.
func FromQuery(c *gin.Context, defaultLimit int) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// New builds the envelope with absolute next/previous links based on the request URL.
func New[T any](c *gin.Context, p Params, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	out := Page[T]{Count: total, Results: results}
	if int64(p.Page*p.Limit) < total {
		out.Next = pageLink(c, p.Page+1)
	}
	if p.Page > 1 {
		out.Previous = pageLink(c, p.Page-1)
	}
	return out
}

func pageLink(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme: response.Scheme(c),
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
