package scene

import (
	"fmt"
	"slices"
)

// Registry maps every non-root entity name to its entity.
type Registry struct {
	entities map[string]*Entity
}

func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

func (r *Registry) add(e *Entity) error {
	if _, ok := r.entities[e.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, e.Name())
	}
	r.entities[e.Name()] = e
	return nil
}

// remove drops name only while it still maps to e.
func (r *Registry) remove(e *Entity) {
	if cur, ok := r.entities[e.Name()]; ok && cur == e {
		delete(r.entities, e.Name())
	}
}

// Find returns the entity registered under name.
func (r *Registry) Find(name string) (*Entity, error) {
	e, ok := r.entities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, name)
	}
	return e, nil
}

func (r *Registry) Contains(name string) bool {
	_, ok := r.entities[name]
	return ok
}

func (r *Registry) Len() int {
	return len(r.entities)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entities))
	for n := range r.entities {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Clear forgets every entity. Entities themselves are untouched.
func (r *Registry) Clear() {
	clear(r.entities)
}
