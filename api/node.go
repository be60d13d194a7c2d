package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// Node is a JSON object that remembers the order of its keys. Sling renders
// JCR properties and child nodes in repository order, and listings keep that
// order.
type Node struct {
	m *orderedmap.OrderedMap
}

// NewNode returns an empty node
func NewNode() *Node {
	return &Node{m: newOrderedMap()}
}

func newOrderedMap() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return m
}

// Keys returns the property names in order
func (n *Node) Keys() []string {
	if n == nil || n.m == nil {
		return nil
	}
	return n.m.Keys()
}

// Len returns the number of properties
func (n *Node) Len() int {
	return len(n.Keys())
}

// Get returns the value of a direct property
func (n *Node) Get(key string) (any, bool) {
	if n == nil || n.m == nil {
		return nil, false
	}
	return n.m.Get(key)
}

// Set adds or replaces a property. New keys are appended; existing keys keep
// their position.
func (n *Node) Set(key string, value any) {
	if n.m == nil {
		n.m = newOrderedMap()
	}
	n.m.Set(key, value)
}

// Child returns the object-valued property key
func (n *Node) Child(key string) (*Node, bool) {
	v, ok := n.Get(key)
	if !ok {
		return nil, false
	}
	return asNode(v)
}

// Text returns the property as a string, formatting scalars
func (n *Node) Text(key string) string {
	v, ok := n.Get(key)
	if !ok {
		return ""
	}
	return formatScalar(v)
}

// Lookup resolves a dotted path such as "jcr:content.metadata.dc:format".
// Every segment but the last must name an object.
func (n *Node) Lookup(path string) (any, bool) {
	cur := n
	segments := strings.Split(path, ".")
	for _, seg := range segments[:len(segments)-1] {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur.Get(segments[len(segments)-1])
}

// LookupText resolves path and formats the value; objects and missing
// properties yield ""
func (n *Node) LookupText(path string) string {
	v, ok := n.Lookup(path)
	if !ok || isObject(v) {
		return ""
	}
	return formatScalar(v)
}

// UnmarshalJSON decodes a JSON object keeping key order. Anything after the
// object, such as an HTML error page, is rejected.
func (n *Node) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	m := newOrderedMap()
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("decoding JSON object: %w", err)
	}
	n.m = m
	return nil
}

// MarshalJSON encodes the node with its keys in order
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	if n.m == nil {
		return []byte("{}"), nil
	}
	return n.m.MarshalJSON()
}

// asNode wraps the object forms a decoded value can take
func asNode(v any) (*Node, bool) {
	switch t := v.(type) {
	case *Node:
		return t, t != nil
	case orderedmap.OrderedMap:
		return &Node{m: &t}, true
	case *orderedmap.OrderedMap:
		return &Node{m: t}, t != nil
	}
	return nil, false
}

func isObject(v any) bool {
	_, ok := asNode(v)
	return ok
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, formatScalar(item))
		}
		return strings.Join(parts, ", ")
	}
	if node, ok := asNode(v); ok {
		data, err := json.Marshal(node)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return fmt.Sprint(v)
}
