package viewport

import (
	"fmt"
	"maps"
	"slices"
)

type (
	// Provider returns the current State of a dimension. Providers are called
	// on every lookup, so a Dimension always reflects the latest inputs.
	Provider func() State

	// Registry is a named set of dimensions for one part of the editor. A
	// Registry created with Scope shadows the dimensions of its parent that
	// have the same name and falls back to the parent for the rest.
	Registry struct {
		parent    *Registry
		providers map[string]Provider
	}

	// DimensionNotFoundError is the error for looking up a dimension that was
	// never registered. It indicates a wiring bug.
	DimensionNotFoundError struct {
		Name string
	}
)

// Well known dimension names.
const (
	Horizontal       = "horizontal"
	Vertical         = "vertical"
	HorizontalTracks = "horizontalTracks"
	VerticalTracks   = "verticalTracks"
)

func (e *DimensionNotFoundError) Error() string {
	return fmt.Sprintf("viewport dimension %q not found", e.Name)
}

// NewRegistry returns a root registry with the given providers.
func NewRegistry(providers map[string]Provider) *Registry {
	return &Registry{providers: maps.Clone(providers)}
}

// Scope returns a child registry whose providers shadow the ones of r.
func (r *Registry) Scope(providers map[string]Provider) *Registry {
	return &Registry{parent: r, providers: maps.Clone(providers)}
}

// Set registers or replaces a provider in this scope.
func (r *Registry) Set(name string, p Provider) {
	if r.providers == nil {
		r.providers = map[string]Provider{}
	}
	r.providers[name] = p
}

// Lookup returns the dimension with the name from the innermost scope that
// has it.
func (r *Registry) Lookup(name string) (Dimension, error) {
	for s := r; s != nil; s = s.parent {
		if p, ok := s.providers[name]; ok && p != nil {
			state := p()
			if state.Name == "" {
				state.Name = name
			}
			return Dimension{State: state}, nil
		}
	}
	return Dimension{}, &DimensionNotFoundError{Name: name}
}

// Dimension is like Lookup, but panics with a *DimensionNotFoundError if
// the dimension does not exist.
func (r *Registry) Dimension(name string) Dimension {
	d, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Has reports if the name resolves in this scope or any parent.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Names returns the sorted names that resolve in this scope.
func (r *Registry) Names() []string {
	seen := map[string]bool{}
	for s := r; s != nil; s = s.parent {
		for name, p := range s.providers {
			if p != nil {
				seen[name] = true
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
