package ptree

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueKey holds the value of a node that also has children when the node
// is written as a YAML mapping.
const ValueKey = "_value"

var (
	_ yaml.Marshaler   = (*Tree)(nil)
	_ yaml.Unmarshaler = (*Tree)(nil)
)

// MarshalYAML writes leaves as scalars and inner nodes as mappings in key
// order.
func (t *Tree) MarshalYAML() (any, error) {
	return t.toNode(), nil
}

func (t *Tree) toNode() *yaml.Node {
	if t.IsLeaf() {
		return scalar(t.value)
	}
	n := &yaml.Node{Kind: yaml.MappingNode}
	if t.value != "" {
		n.Content = append(n.Content, scalar(ValueKey), scalar(t.value))
	}
	for _, key := range t.keys {
		n.Content = append(n.Content, scalar(key), t.children[key].toNode())
	}
	return n
}

// UnmarshalYAML merges node into t. Sequence items become children keyed by
// their index.
func (t *Tree) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, c := range node.Content {
			if err := t.UnmarshalYAML(c); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		return t.UnmarshalYAML(node.Alias)
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			t.value = node.Value
		}
	case yaml.MappingNode:
		if len(node.Content)%2 != 0 {
			return fmt.Errorf("line %d: malformed mapping", node.Line)
		}
		for i := 0; i < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			if k.Value == ValueKey && v.Kind == yaml.ScalarNode {
				t.value = v.Value
				continue
			}
			if err := t.AddChild(k.Value).UnmarshalYAML(v); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, c := range node.Content {
			if err := t.AddChild(strconv.Itoa(i)).UnmarshalYAML(c); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("line %d: unsupported yaml node kind %d", node.Line, node.Kind)
	}
	return nil
}

// Encode writes t to w as a YAML document.
func Encode(w io.Writer, t *Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return enc.Close()
}

// Decode reads one YAML document from r. An empty input is an empty tree.
func Decode(r io.Reader) (*Tree, error) {
	t := New()
	if err := yaml.NewDecoder(r).Decode(t); err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return t, nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}
