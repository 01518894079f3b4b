// Package ptree implements an ordered property tree. Every node holds a
// string value and named children kept in insertion order. Paths address
// nested nodes with '.' separated keys.
//
// Components persist themselves into a Tree; the scene file layer converts
// trees to and from YAML.
package ptree

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/zeusync/zengine/pkg/math3d"
)

// Separator splits path keys.
const Separator = "."

var (
	ErrPathNotFound = errors.New("path not found")
	ErrInvalidValue = errors.New("invalid value")
)

// Tree is a node of a property tree. The zero value is an empty tree.
type Tree struct {
	value    string
	keys     []string
	children map[string]*Tree
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

func (t *Tree) Value() string {
	return t.value
}

func (t *Tree) SetValue(v string) {
	t.value = v
}

// Keys returns the child keys in insertion order.
func (t *Tree) Keys() []string {
	return slices.Clone(t.keys)
}

// Len returns the number of direct children.
func (t *Tree) Len() int {
	return len(t.keys)
}

// IsLeaf reports whether the node has no children.
func (t *Tree) IsLeaf() bool {
	return len(t.keys) == 0
}

// Child returns the direct child stored under key. The key is not split.
func (t *Tree) Child(key string) (*Tree, bool) {
	c, ok := t.children[key]
	return c, ok
}

// AddChild returns the direct child under key, creating it if needed.
func (t *Tree) AddChild(key string) *Tree {
	if c, ok := t.children[key]; ok {
		return c
	}
	if t.children == nil {
		t.children = make(map[string]*Tree)
	}
	c := New()
	t.children[key] = c
	t.keys = append(t.keys, key)
	return c
}

// RemoveChild deletes the direct child under key.
func (t *Tree) RemoveChild(key string) bool {
	if _, ok := t.children[key]; !ok {
		return false
	}
	delete(t.children, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
	return true
}

// Find resolves a path. The empty path is the node itself.
func (t *Tree) Find(path string) (*Tree, bool) {
	node := t
	for _, key := range split(path) {
		next, ok := node.children[key]
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Ensure resolves a path, creating missing nodes.
func (t *Tree) Ensure(path string) *Tree {
	node := t
	for _, key := range split(path) {
		node = node.AddChild(key)
	}
	return node
}

// Put stores value at path.
func (t *Tree) Put(path, value string) {
	t.Ensure(path).value = value
}

// Get returns the value at path.
func (t *Tree) Get(path string) (string, bool) {
	node, ok := t.Find(path)
	if !ok {
		return "", false
	}
	return node.value, true
}

// GetString returns the value at path or def if the path is missing.
func (t *Tree) GetString(path, def string) string {
	if v, ok := t.Get(path); ok {
		return v
	}
	return def
}

// PutFloat stores v at path.
func (t *Tree) PutFloat(path string, v float32) {
	t.Put(path, formatFloat(v))
}

// GetFloat returns the number at path or def if the path is missing.
func (t *Tree) GetFloat(path string, def float32) (float32, error) {
	v, ok := t.Get(path)
	if !ok {
		return def, nil
	}
	f, err := math3d.ParseFloat(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%w at %s: %w", ErrInvalidValue, path, err)
	}
	return f, nil
}

// PutBool stores v at path.
func (t *Tree) PutBool(path string, v bool) {
	t.Put(path, strconv.FormatBool(v))
}

// GetBool returns the flag at path or def if the path is missing.
func (t *Tree) GetBool(path string, def bool) (bool, error) {
	v, ok := t.Get(path)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%w at %s: %q", ErrInvalidValue, path, v)
	}
	return b, nil
}

// PutVec3 stores v at path as "x y z".
func (t *Tree) PutVec3(path string, v math3d.Vec3) {
	t.Put(path, formatFloats(v.Floats()))
}

// GetVec3 returns the vector at path or def if the path is missing.
func (t *Tree) GetVec3(path string, def math3d.Vec3) (math3d.Vec3, error) {
	v, ok := t.Get(path)
	if !ok {
		return def, nil
	}
	fields := strings.Fields(v)
	if len(fields) != 3 {
		return def, fmt.Errorf("%w at %s: want 3 numbers, got %q", ErrInvalidValue, path, v)
	}
	out, err := math3d.ParseVec3(fields)
	if err != nil {
		return def, fmt.Errorf("%w at %s: %w", ErrInvalidValue, path, err)
	}
	return out, nil
}

// PutQuat stores q at path as "x y z w".
func (t *Tree) PutQuat(path string, q math3d.Quat) {
	t.Put(path, formatFloats(q.Floats()))
}

// GetQuat returns the normalized quaternion at path or def if the path is
// missing.
func (t *Tree) GetQuat(path string, def math3d.Quat) (math3d.Quat, error) {
	v, ok := t.Get(path)
	if !ok {
		return def, nil
	}
	fields := strings.Fields(v)
	if len(fields) != 4 {
		return def, fmt.Errorf("%w at %s: want 4 numbers, got %q", ErrInvalidValue, path, v)
	}
	var c [4]float32
	for i, f := range fields {
		n, err := math3d.ParseFloat(f)
		if err != nil {
			return def, fmt.Errorf("%w at %s: %w", ErrInvalidValue, path, err)
		}
		c[i] = n
	}
	return math3d.NewQuat(c[0], c[1], c[2], c[3]).Normal(), nil
}

// Walk visits every node below t depth-first, in key order, with its full
// path.
func (t *Tree) Walk(fn func(path string, node *Tree)) {
	t.walk("", fn)
}

func (t *Tree) walk(prefix string, fn func(string, *Tree)) {
	for _, key := range t.keys {
		path := key
		if prefix != "" {
			path = prefix + Separator + key
		}
		child := t.children[key]
		fn(path, child)
		child.walk(path, fn)
	}
}

func split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

func formatFloats(vs []float32) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, " ")
}
