package tree

import "strings"

// Path locates a Node or Leaf as an ordered sequence of string segments
// descending from a start node. A zero-length Path addresses the start
// node itself.
type Path []string

// ParsePath splits a dot-separated string ("section.sub.key") into a Path.
// An empty string yields a zero-length Path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

// String returns the dot-separated form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Child returns a new Path extended by one segment. The receiver is not
// modified and no storage is shared with it.
func (p Path) Child(segment string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = segment
	return out
}
