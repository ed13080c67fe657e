package tree

import "sort"

// Entry is a slot in the tree: either a *Node or a *Leaf, never both.
// The interface is sealed so navigation and merge logic can branch
// exhaustively over the two cases with a type switch.
type Entry interface {
	entry()
}

// Node is an interior tree element holding named children. It carries no
// value of its own, only structure. Each child slot holds exactly one
// Entry; a Node exclusively owns its children.
type Node struct {
	children map[string]Entry
}

// Leaf is a terminal tree element holding one opaque value plus
// provenance metadata. Leaves have no children.
type Leaf struct {
	// Value is stored verbatim: any scalar, sequence, or nested mapping
	// the serialization layer produced.
	Value any
	// Meta records provenance facts, at minimum the source layer that
	// produced the value.
	Meta Metadata
}

func (*Node) entry() {}
func (*Leaf) entry() {}

// Metadata holds provenance facts for a Leaf.
type Metadata map[string]string

// KeySource is the metadata key identifying the configuration layer a
// value came from, e.g. "defaults", "file: /etc/app.toml", or "runtime".
const KeySource = "source"

// SourceMeta returns Metadata tagging values with the given source layer.
func SourceMeta(label string) Metadata {
	return Metadata{KeySource: label}
}

// Source returns the source tag, or "" if none is recorded.
func (m Metadata) Source() string {
	return m[KeySource]
}

// NewNode creates an empty Node. The root of a tree is an unnamed Node
// created once and kept for the tree's lifetime.
func NewNode() *Node {
	return &Node{children: make(map[string]Entry)}
}

// HasChild reports whether a child (Node or Leaf) with the given name exists.
func (n *Node) HasChild(name string) bool {
	_, ok := n.children[name]
	return ok
}

// Child returns the child with the given name.
func (n *Node) Child(name string) (Entry, bool) {
	child, ok := n.children[name]
	return child, ok
}

// AddChild creates an empty child Node under the given name. It fails
// with ErrAlreadyExists if a child of either kind is already present.
func (n *Node) AddChild(name string) (*Node, error) {
	if _, ok := n.children[name]; ok {
		return nil, &PathError{Op: "add", Path: Path{name}, Err: ErrAlreadyExists}
	}
	child := NewNode()
	n.children[name] = child
	return child, nil
}

// RemoveChild removes the child with the given name, along with its
// subtree if it is a Node. It fails with ErrNotFound if no such child
// exists.
func (n *Node) RemoveChild(name string) error {
	if _, ok := n.children[name]; !ok {
		return &PathError{Op: "remove", Path: Path{name}, Err: ErrNotFound}
	}
	delete(n.children, name)
	return nil
}

// ChildNames returns the names of all children in sorted order.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
