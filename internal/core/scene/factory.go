package scene

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// TypeID is a compact hash of a component type name.
type TypeID uint64

// TypeIDOf hashes a component type name.
func TypeIDOf(name string) TypeID {
	return TypeID(xxhash.Sum64String(name))
}

// Constructor builds a component attached to owner.
type Constructor func(owner *Entity) (Component, error)

// Factory creates components by type name.
type Factory struct {
	ctors map[TypeID]Constructor
	names map[TypeID]string
}

func NewFactory() *Factory {
	return &Factory{
		ctors: make(map[TypeID]Constructor),
		names: make(map[TypeID]string),
	}
}

// Register binds a constructor to a type name.
func (f *Factory) Register(name string, ctor Constructor) error {
	id := TypeIDOf(name)
	if prev, ok := f.names[id]; ok {
		return fmt.Errorf("%w: %s (registered as %s)", ErrDuplicateType, name, prev)
	}
	f.ctors[id] = ctor
	f.names[id] = name
	return nil
}

// Create builds a component of the named type on owner.
func (f *Factory) Create(name string, owner *Entity) (Component, error) {
	return f.CreateByID(TypeIDOf(name), owner)
}

// CreateByID builds a component from its type hash.
func (f *Factory) CreateByID(id TypeID, owner *Entity) (Component, error) {
	ctor, ok := f.ctors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownComponentType, uint64(id))
	}
	if owner == nil {
		return nil, ErrNilEntity
	}
	c, err := ctor(owner)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", f.names[id], err)
	}
	return c, nil
}

// Has reports whether name is registered.
func (f *Factory) Has(name string) bool {
	_, ok := f.ctors[TypeIDOf(name)]
	return ok
}

// Types returns the registered type names, sorted.
func (f *Factory) Types() []string {
	out := make([]string, 0, len(f.names))
	for _, n := range f.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
