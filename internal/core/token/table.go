// Package token interns names to dense integer ids.
package token

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/pkg/sequence"
)

// ID is an interned token id. It is stable while the token is registered.
type ID uint32

var ErrNotFound = errors.New("token not found")

const (
	DefaultStart ID = 1
	DefaultStep  ID = 1
)

type Option func(*options)

type options struct {
	start ID
	step  ID
}

// WithStart sets the first id handed out by the table.
func WithStart(start ID) Option {
	return func(o *options) { o.start = start }
}

// WithStep sets the distance between consecutive ids.
func WithStep(step ID) Option {
	return func(o *options) { o.step = step }
}

// Table is a bidirectional name <-> id map. Names are unique per table.
// It is not safe for concurrent use.
type Table struct {
	name   string
	ids    map[string]ID
	names  map[ID]string
	sorted []string
	gen    *IDGenerator[ID]
	logger log.Log
}

func NewTable(name string, logger log.Log, opts ...Option) *Table {
	o := options{start: DefaultStart, step: DefaultStep}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table{
		name:   name,
		ids:    make(map[string]ID),
		names:  make(map[ID]string),
		gen:    NewIDGenerator(o.start, o.step),
		logger: logger.With(log.String("table", name)),
	}
}

func (t *Table) Name() string {
	return t.name
}

// Register interns name. Registering a name twice returns the same id.
func (t *Table) Register(name string) ID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := t.gen.Next()
	t.ids[name] = id
	t.names[id] = name
	pos, _ := slices.BinarySearch(t.sorted, name)
	t.sorted = slices.Insert(t.sorted, pos, name)
	return id
}

// Unregister removes name and releases its id. It reports whether the name
// was present.
func (t *Table) Unregister(name string) bool {
	id, ok := t.ids[name]
	if !ok {
		return false
	}
	delete(t.ids, name)
	delete(t.names, id)
	if pos, found := slices.BinarySearch(t.sorted, name); found {
		t.sorted = slices.Delete(t.sorted, pos, pos+1)
	}
	t.gen.Release(id)
	return true
}

// FindID returns the id of name or an error wrapping ErrNotFound.
func (t *Table) FindID(name string) (ID, error) {
	id, ok := t.ids[name]
	if !ok {
		t.logger.Debug("token not found", log.String("name", name))
		return 0, fmt.Errorf("%s %q: %w", t.name, name, ErrNotFound)
	}
	return id, nil
}

// Lookup is FindID without logging, for callers that expect misses.
func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// FindName returns the name of id, or "" if the id is not registered.
func (t *Table) FindName(id ID) string {
	return t.names[id]
}

func (t *Table) Contains(name string) bool {
	_, ok := t.ids[name]
	return ok
}

func (t *Table) Len() int {
	return len(t.ids)
}

// Names returns every registered name in lexicographic order.
func (t *Table) Names() []string {
	return slices.Clone(t.sorted)
}

// Autocomplete returns, in lexicographic order, every name starting with
// prefix. The scan stops at the first name past the prefix range.
func (t *Table) Autocomplete(prefix string) []string {
	return t.Matches(prefix).Collect()
}

// Matches is the lazy form of Autocomplete.
func (t *Table) Matches(prefix string) *sequence.Iterator[string] {
	pos, _ := slices.BinarySearch(t.sorted, prefix)
	return sequence.From(t.sorted[pos:]).TakeWhile(func(name string) bool {
		return strings.HasPrefix(name, prefix)
	})
}
