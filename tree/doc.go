// Package tree implements the configuration tree at the heart of stratum.
//
// A tree is a rooted hierarchy of named Nodes and Leaves. Nodes carry
// structure only; Leaves carry a single opaque value together with
// provenance metadata recording which configuration layer produced it.
// Every child slot holds exactly one of the two kinds, so navigation and
// merging branch over a closed two-case sum rather than inspecting
// arbitrary dynamic types.
//
// Values are addressed by paths: ordered sequences of string segments
// descending from the root. Lookup supports both exact resolution
// (Navigate) and most-specific resolution with fallback (GetDeepestLeaf),
// where a deeply specified value wins over a more general one and unset
// paths fall back toward the root.
//
// The tree performs no I/O and no locking. Callers sharing a tree across
// goroutines must serialize access externally.
package tree
