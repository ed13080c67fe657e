package tree

import "sort"

// Navigate descends from n one segment at a time and returns whatever
// Entry sits at the final segment. It fails with ErrNotFound if a segment
// is absent or if an intermediate segment names a Leaf, since Leaves
// cannot be descended into. A zero-length path returns n itself.
func (n *Node) Navigate(path Path) (Entry, error) {
	cur := n
	for i, segment := range path {
		child, ok := cur.children[segment]
		if !ok {
			return nil, &PathError{Op: "navigate", Path: path[:i+1], Err: ErrNotFound}
		}
		if i == len(path)-1 {
			return child, nil
		}
		next, ok := child.(*Node)
		if !ok {
			return nil, &PathError{Op: "navigate", Path: path[:i+1], Err: ErrNotFound}
		}
		cur = next
	}
	return cur, nil
}

// GetDeepestLeaf resolves the most specific value for a path: the Leaf at
// the longest prefix of path that holds one. A deeply specified value
// takes precedence over a more general one set at a shallower path, and
// unset paths fall back toward the root.
//
// Because a slot holds exactly one of Node or Leaf, at most one Leaf can
// sit on the chain of prefixes, so a single descent finds it: each step
// either continues through a Node, stops at the Leaf, or stops at a
// missing child. It fails with ErrNotFound when no prefix of the path
// resolves to a Leaf.
func (n *Node) GetDeepestLeaf(path Path) (*Leaf, error) {
	cur := n
	for _, segment := range path {
		child, ok := cur.children[segment]
		if !ok {
			break
		}
		switch c := child.(type) {
		case *Leaf:
			return c, nil
		case *Node:
			cur = c
		}
	}
	return nil, &PathError{Op: "resolve", Path: path, Err: ErrNotFound}
}

// Contains reports whether the path resolves to an existing Node or Leaf.
func (n *Node) Contains(path Path) bool {
	_, err := n.Navigate(path)
	return err == nil
}

// Upsert sets a Leaf holding value and meta at the given non-empty path,
// creating intermediate Nodes on demand. If an intermediate segment names
// an existing Leaf the call fails with ErrTypeConflict and the tree is
// unchanged. Overwriting the final slot is destructive in both
// directions: a Leaf replacing a Node discards the whole subtree, which
// is the intended section-to-scalar collapse of override semantics.
func (n *Node) Upsert(path Path, value any, meta Metadata) error {
	if len(path) == 0 {
		return &PathError{Op: "upsert", Path: path, Err: ErrEmptyPath}
	}
	cur := n
	for i, segment := range path[:len(path)-1] {
		child, ok := cur.children[segment]
		if !ok {
			next := NewNode()
			cur.children[segment] = next
			cur = next
			continue
		}
		next, ok := child.(*Node)
		if !ok {
			return &PathError{Op: "upsert", Path: path[:i+1], Err: ErrTypeConflict}
		}
		cur = next
	}
	cur.children[path[len(path)-1]] = &Leaf{Value: value, Meta: meta}
	return nil
}

// Remove deletes the Leaf or Node (with its subtree) at path from its
// parent. It fails with ErrNotFound if the path does not resolve to an
// existing child.
func (n *Node) Remove(path Path) error {
	if len(path) == 0 {
		return &PathError{Op: "remove", Path: path, Err: ErrEmptyPath}
	}
	parent, err := n.Navigate(path[:len(path)-1])
	if err != nil {
		return &PathError{Op: "remove", Path: path, Err: ErrNotFound}
	}
	node, ok := parent.(*Node)
	if !ok {
		return &PathError{Op: "remove", Path: path, Err: ErrNotFound}
	}
	name := path[len(path)-1]
	if _, ok := node.children[name]; !ok {
		return &PathError{Op: "remove", Path: path, Err: ErrNotFound}
	}
	delete(node.children, name)
	return nil
}

// Merge recursively applies a nested mapping to the tree. Nested
// map[string]any values descend into (or create) the Node named by their
// key; any other value upserts a Leaf tagged with meta. Merge is purely
// additive and overwriting: paths not mentioned in the mapping are left
// alone. A Leaf occupying a slot the mapping treats as a section is
// replaced by a Node, mirroring the destructive final-slot overwrite of
// Upsert. Values are deep-cloned so the tree never aliases caller data.
func (n *Node) Merge(values map[string]any, meta Metadata) {
	for key, val := range values {
		if nested, ok := val.(map[string]any); ok {
			child, ok := n.children[key].(*Node)
			if !ok {
				child = NewNode()
				n.children[key] = child
			}
			child.Merge(nested, meta)
			continue
		}
		n.children[key] = &Leaf{Value: cloneValue(val), Meta: meta}
	}
}

// Export walks the whole tree and produces a nested mapping mirroring its
// structure: each Node becomes a map keyed by child name, each Leaf its
// bare value with metadata dropped. The result shares no storage with the
// tree, and re-merging it into an empty tree reproduces the same set of
// path/value pairs.
func (n *Node) Export() map[string]any {
	out := make(map[string]any, len(n.children))
	for name, child := range n.children {
		switch c := child.(type) {
		case *Node:
			out[name] = c.Export()
		case *Leaf:
			out[name] = cloneValue(c.Value)
		}
	}
	return out
}

// Walk visits every Leaf in depth-first order, children sorted by name,
// so traversal is deterministic.
func (n *Node) Walk(fn func(path Path, leaf *Leaf)) {
	n.walk(nil, fn)
}

func (n *Node) walk(prefix Path, fn func(path Path, leaf *Leaf)) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch c := n.children[name].(type) {
		case *Leaf:
			fn(prefix.Child(name), c)
		case *Node:
			c.walk(prefix.Child(name), fn)
		}
	}
}

// Len returns the number of Leaves in the tree.
func (n *Node) Len() int {
	count := 0
	n.Walk(func(Path, *Leaf) { count++ })
	return count
}
