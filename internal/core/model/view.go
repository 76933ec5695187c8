package model

import (
	"fmt"
	"time"
)

// ResourceView describes how one resource is displayed.
type ResourceView struct {
	Name string
	Kind Kind
}

// DiscreteValues returns the declared enum labels, or nil for other kinds.
func (rv ResourceView) DiscreteValues() []string {
	if e, ok := rv.Kind.(Enum); ok {
		return e.Values
	}
	return nil
}

// Resolution returns the polynomial sampling resolution, or zero.
func (rv ResourceView) Resolution() time.Duration {
	if p, ok := rv.Kind.(Polynomial); ok {
		return p.Resolution
	}
	return 0
}

// View is the ordered set of resources to display. It is read-only after
// NewView returns.
type View struct {
	resources []ResourceView
	index     map[string]int
}

// NewView validates resources and builds a View that keeps their order.
func NewView(resources []ResourceView) (*View, error) {
	if len(resources) == 0 {
		return nil, ErrEmptyView
	}

	v := &View{
		resources: make([]ResourceView, 0, len(resources)),
		index:     make(map[string]int, len(resources)),
	}
	for _, r := range resources {
		if r.Name == "" {
			return nil, fmt.Errorf("resource at position %d has no name", len(v.resources))
		}
		if r.Kind == nil {
			return nil, fmt.Errorf("%w: resource '%s' has no kind", ErrUnknownKind, r.Name)
		}
		if _, exists := v.index[r.Name]; exists {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateResource, r.Name)
		}
		v.index[r.Name] = len(v.resources)
		v.resources = append(v.resources, r)
	}
	return v, nil
}

// Resources returns the resources in display order.
func (v *View) Resources() []ResourceView {
	out := make([]ResourceView, len(v.resources))
	copy(out, v.resources)
	return out
}

// Names returns the resource names in display order.
func (v *View) Names() []string {
	names := make([]string, len(v.resources))
	for i, r := range v.resources {
		names[i] = r.Name
	}
	return names
}

// Lookup finds a resource by name.
func (v *View) Lookup(name string) (ResourceView, bool) {
	i, ok := v.index[name]
	if !ok {
		return ResourceView{}, false
	}
	return v.resources[i], true
}

// Len returns the number of resources.
func (v *View) Len() int {
	return len(v.resources)
}

// Plan fixes the displayed time window.
type Plan struct {
	Start time.Time
	End   time.Time
}
