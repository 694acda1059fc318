package admin

import (
	"context"
)

// DefaultEmptyValue подставляется вместо NULL и пустых строк.
const DefaultEmptyValue = "-пусто-"

// Filter is an exact match list filter: ?<Param>=value applies Clause with one placeholder.
type Filter struct {
	Param  string
	Clause string
}

// Form is a create payload. Build runs after validation and returns the row to insert.
type Form interface {
	Build() (any, error)
}

// Resource describes one table exposed under /admin/<Name>/.
// Column lists are SQL select expressions and come only from code, never from requests.
type Resource struct {
	Name  string
	Table string
	Joins []string

	ListDisplay   []string
	DetailDisplay []string
	SearchFields  []string
	ListFilter    []Filter
	Ordering      string

	EmptyValueDisplay string

	// NewForm enables POST; nil means the resource is read/delete only.
	NewForm func() Form
	// DeleteFunc overrides the plain DELETE, e.g. to clean up related rows.
	DeleteFunc func(ctx context.Context, id int64) error
}

func (r *Resource) emptyValue() string {
	if r.EmptyValueDisplay != "" {
		return r.EmptyValueDisplay
	}
	return DefaultEmptyValue
}

func (r *Resource) detailColumns() []string {
	if len(r.DetailDisplay) > 0 {
		return r.DetailDisplay
	}
	return r.ListDisplay
}

func (r *Resource) ordering() string {
	if r.Ordering != "" {
		return r.Ordering
	}
	return r.Table + ".id"
}

// Registry looks resources up by name and keeps registration order for the index.
type Registry struct {
	order     []string
	resources map[string]*Resource
}

func NewRegistry(resources ...Resource) *Registry {
	reg := &Registry{resources: make(map[string]*Resource, len(resources))}
	for i := range resources {
		res := resources[i]
		reg.order = append(reg.order, res.Name)
		reg.resources[res.Name] = &res
	}
	return reg
}

func (r *Registry) Get(name string) (*Resource, bool) {
	res, ok := r.resources[name]
	return res, ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
