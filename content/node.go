// Package content holds the in-memory tree a document is decoded into.
package content

import (
	"github.com/goccy/go-json"

	"github.com/reoring/jsonbind/schema"
)

// Number is a numeric literal kept verbatim.
type Number = json.Number

// Node is a schema-typed, insertion-ordered mapping from field name to value.
// Repeating fields hold []any.
type Node struct {
	typ    *schema.Complex
	keys   []string
	values map[string]any
	rows   map[string][]int
}

// New returns an empty node of type t.
func New(t *schema.Complex) *Node {
	return &Node{typ: t, values: map[string]any{}}
}

// Type returns the composite type the node was built from.
func (n *Node) Type() *schema.Complex { return n.typ }

// Get returns the value stored under name, nil when absent.
func (n *Node) Get(name string) any { return n.values[name] }

// Has reports whether name was set, even to nil.
func (n *Node) Has(name string) bool {
	_, ok := n.values[name]
	return ok
}

// Set stores v under name.
func (n *Node) Set(name string, v any) {
	if _, ok := n.values[name]; !ok {
		n.keys = append(n.keys, name)
	}
	n.values[name] = v
}

// SetIndex stores v at position i of the list under name, growing the list
// with nils as needed. A scalar already stored under name becomes element 0.
func (n *Node) SetIndex(name string, i int, v any) {
	list := n.List(name)
	if list == nil {
		if cur, ok := n.values[name]; ok && cur != nil {
			list = []any{cur}
		}
	}
	for len(list) <= i {
		list = append(list, nil)
	}
	list[i] = v
	n.Set(name, list)
}

// Append adds v to the end of the list under name and returns its index.
func (n *Node) Append(name string, v any) int {
	i := n.Len(name)
	n.SetIndex(name, i, v)
	return i
}

// List returns the list under name, nil when the field is absent or singular.
func (n *Node) List(name string) []any {
	l, _ := n.values[name].([]any)
	return l
}

// Len returns the number of elements under name: list length, 1 for a
// present singular value, 0 otherwise.
func (n *Node) Len(name string) int {
	switch v := n.values[name].(type) {
	case nil:
		return 0
	case []any:
		return len(v)
	}
	return 1
}

// Delete removes name.
func (n *Node) Delete(name string) {
	if _, ok := n.values[name]; !ok {
		return
	}
	delete(n.values, name)
	delete(n.rows, name)
	for i, k := range n.keys {
		if k == name {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the set field names in insertion order.
func (n *Node) Keys() []string { return append([]string(nil), n.keys...) }

// Rows returns the row lengths recorded for a matrix field.
func (n *Node) Rows(name string) []int { return n.rows[name] }

// SetRows records how a flattened matrix field splits into rows.
func (n *Node) SetRows(name string, rows []int) {
	if n.rows == nil {
		n.rows = map[string][]int{}
	}
	n.rows[name] = rows
}

// ToMap converts the node into plain maps and slices, recursively.
func (n *Node) ToMap() map[string]any {
	if n == nil {
		return nil
	}
	out := make(map[string]any, len(n.keys))
	for _, k := range n.keys {
		out[k] = plain(n.values[k])
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case *Node:
		return x.ToMap()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	}
	return v
}
