package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind distinguishes the three node cases in a manifest tree.
type Kind int

const (
	// KindBranch is a directory holding only subdirectories.
	KindBranch Kind = iota
	// KindLeaf is a content directory with a primary document.
	KindLeaf
	// KindLeafMissing is a content directory whose primary document is absent.
	KindLeafMissing
)

// Node is one directory in the manifest tree. Branches keep their children
// in insertion order, which the scanner guarantees to be lexicographic, so
// serialization never re-sorts.
type Node struct {
	kind     Kind
	document string
	order    []string
	children map[string]*Node
}

// NewBranch returns an empty branch node.
func NewBranch() *Node {
	return &Node{kind: KindBranch}
}

// NewLeaf returns a leaf node holding the primary document's file name.
func NewLeaf(document string) *Node {
	return &Node{kind: KindLeaf, document: document}
}

// NewMissingLeaf returns a leaf node marking an absent primary document.
func NewMissingLeaf() *Node {
	return &Node{kind: KindLeafMissing}
}

// Kind reports which of the three cases this node is.
func (n *Node) Kind() Kind { return n.kind }

// Document returns the primary document file name; empty unless KindLeaf.
func (n *Node) Document() string { return n.document }

// AddChild appends a child under the given name. Re-adding a name replaces
// the node but keeps its original position.
func (n *Node) AddChild(name string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	if _, exists := n.children[name]; !exists {
		n.order = append(n.order, name)
	}
	n.children[name] = child
}

// ChildNames returns child names in insertion order.
func (n *Node) ChildNames() []string {
	names := make([]string, len(n.order))
	copy(names, n.order)
	return names
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// LeafCount returns the number of leaves with a document and the number of
// absence markers in the subtree.
func (n *Node) LeafCount() (present, missing int) {
	switch n.kind {
	case KindLeaf:
		return 1, 0
	case KindLeafMissing:
		return 0, 1
	}
	for _, name := range n.order {
		p, m := n.children[name].LeafCount()
		present += p
		missing += m
	}
	return present, missing
}

// Walk visits every node depth-first in child order. The path holds the
// directory names from the root down to (and including) the visited node;
// the root itself is visited with an empty path.
func (n *Node) Walk(fn func(path []string, node *Node) error) error {
	return n.walk(nil, fn)
}

func (n *Node) walk(path []string, fn func(path []string, node *Node) error) error {
	if err := fn(path, n); err != nil {
		return err
	}
	for _, name := range n.order {
		if err := n.children[name].walk(append(path, name), fn); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether two trees have identical shape, ordering, and leaf
// values.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.kind != other.kind || n.document != other.document {
		return false
	}
	if len(n.order) != len(other.order) {
		return false
	}
	for i, name := range n.order {
		if other.order[i] != name {
			return false
		}
		if !n.children[name].Equal(other.children[name]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes a branch as an object in child order, a leaf as its
// document name, and a missing leaf as null.
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case KindLeaf:
		return json.Marshal(n.document)
	case KindLeafMissing:
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range n.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := n.children[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Parse decodes manifest JSON back into a node tree, preserving key order.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	node, err := parseNode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("parse manifest: trailing content after document")
	}
	return node, nil
}

func parseNode(dec *json.Decoder) (*Node, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	switch value := token.(type) {
	case string:
		return NewLeaf(value), nil
	case nil:
		return NewMissingLeaf(), nil
	case json.Delim:
		if value != '{' {
			return nil, fmt.Errorf("parse manifest: unexpected delimiter %q", value)
		}
		branch := NewBranch()
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("parse manifest: %w", err)
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("parse manifest: non-string key %v", keyToken)
			}
			child, err := parseNode(dec)
			if err != nil {
				return nil, err
			}
			branch.AddChild(key, child)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
		return branch, nil
	default:
		return nil, fmt.Errorf("parse manifest: unexpected value %v", token)
	}
}
