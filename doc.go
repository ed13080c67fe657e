// Package stratum provides hierarchical, overridable configuration
// storage with provenance tracking.
//
// A Store wraps one configuration tree and orchestrates layered sources:
// compiled-in defaults, a global file, a local file, environment
// variables, and runtime overrides. Later layers override earlier ones at
// coincident paths, while unset paths fall back toward more general
// values. Every stored value remembers which layer produced it.
//
//	s := stratum.New(
//		stratum.WithDefaults(defaults),
//		stratum.WithGlobalPath(stratum.DefaultGlobalPath("myapp")),
//		stratum.WithLocalPath(stratum.DefaultLocalPath("myapp")),
//	)
//	if err := s.Load(); err != nil { ... }
//	port, err := s.GetInt("server", "port")
//
// The tree core lives in the tree subpackage; serialization formats live
// in the loader subpackage.
package stratum
