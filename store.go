package stratum

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/dshills/stratum/loader"
	"github.com/dshills/stratum/tree"
)

// Source labels recorded in Leaf provenance metadata.
const (
	// SourceDefaults tags values from the compiled-in defaults layer.
	SourceDefaults = "defaults"
	// SourceEnvironment tags values from environment variables.
	SourceEnvironment = "environment"
	// SourceRuntime tags values set programmatically at runtime.
	SourceRuntime = "runtime"
)

// FileSource returns the provenance label for a configuration file.
func FileSource(path string) string {
	return "file: " + path
}

// ByteSource is one already-read configuration source: raw bytes plus the
// provenance label to record on every value it contributes.
type ByteSource struct {
	// Label identifies the source in provenance metadata.
	Label string
	// Data is the raw serialized configuration.
	Data []byte
	// Format selects the parser.
	Format loader.Format
}

// Store wraps one configuration tree and owns load/write orchestration.
// The tree itself performs no I/O; the Store reads an ordered list of
// sources, applies each as a merge with distinct provenance metadata, and
// offers save-back.
//
// A Store is not safe for concurrent mutation; callers sharing one across
// goroutines must serialize access externally.
type Store struct {
	root *tree.Node
	fs   loader.FileSystem
	log  zerolog.Logger

	globalPath string
	localPath  string
	envPrefix  string
	defaults   map[string]any

	filesRead []string
}

// Option configures a Store instance.
type Option func(*Store)

// WithDefaults supplies the compiled-in defaults layer. It is merged at
// construction time with the "defaults" source tag, before any file layer.
func WithDefaults(defaults map[string]any) Option {
	return func(s *Store) {
		s.defaults = defaults
	}
}

// WithGlobalPath sets the global (user-wide) configuration file path.
func WithGlobalPath(path string) Option {
	return func(s *Store) {
		s.globalPath = path
	}
}

// WithLocalPath sets the local (per-directory) configuration file path.
// The local layer overrides the global one at coincident paths.
func WithLocalPath(path string) Option {
	return func(s *Store) {
		s.localPath = path
	}
}

// WithEnvPrefix enables the environment layer: variables named
// PREFIX_SECTION_KEY override file values during Load.
func WithEnvPrefix(prefix string) Option {
	return func(s *Store) {
		s.envPrefix = prefix
	}
}

// WithLogger sets the logger used for load/save diagnostics.
// Logging is disabled by default.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithFileSystem sets a custom file system for reading configuration files.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(s *Store) {
		s.fs = fsys
	}
}

// New creates a Store with the given options. If defaults were supplied
// they are merged immediately under the "defaults" source tag.
func New(opts ...Option) *Store {
	s := &Store{
		root: tree.NewNode(),
		fs:   loader.DefaultFS(),
		log:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.defaults != nil {
		s.root.Merge(s.defaults, tree.SourceMeta(SourceDefaults))
	}

	return s
}

// Load applies the configured layers in override order: the global file,
// then the local file, then environment variables. Missing files are
// skipped; a malformed file fails the load without applying that source.
func (s *Store) Load() error {
	if _, err := s.ReadFiles(s.globalPath, s.localPath); err != nil {
		return err
	}

	if s.envPrefix != "" {
		values, err := loader.NewEnvLoader(s.envPrefix).Load()
		if err != nil {
			return err
		}
		if len(values) > 0 {
			s.root.Merge(values, tree.SourceMeta(SourceEnvironment))
			s.log.Debug().Str("prefix", s.envPrefix).Msg("applied environment overrides")
		}
	}

	return nil
}

// ReadFiles reads and merges the given configuration files in order,
// each under a "file: <path>" source tag. Empty and missing paths are
// skipped. It returns the paths actually read. A file that exists but
// fails to parse aborts the sequence with an error and contributes
// nothing (all-or-nothing per source).
func (s *Store) ReadFiles(paths ...string) ([]string, error) {
	var read []string
	for _, path := range paths {
		if path == "" {
			continue
		}

		values, err := loader.ForPath(s.fs, path).LoadFrom(path)
		if err != nil {
			s.log.Error().Err(err).Str("path", path).Msg("failed to load config file")
			return read, err
		}
		if values == nil {
			s.log.Debug().Str("path", path).Msg("config file not found, skipping")
			continue
		}

		s.root.Merge(values, tree.SourceMeta(FileSource(path)))
		s.filesRead = append(s.filesRead, path)
		read = append(read, path)
		s.log.Debug().Str("path", path).Msg("applied config file")
	}
	return read, nil
}

// LoadBytes parses and merges caller-supplied sources in the given order,
// recording each source's label in provenance metadata. A source that
// fails to parse aborts the sequence and contributes nothing.
func (s *Store) LoadBytes(sources ...ByteSource) error {
	for _, src := range sources {
		values, err := loader.Parse(src.Format, src.Label, src.Data)
		if err != nil {
			s.log.Error().Err(err).Str("source", src.Label).Msg("failed to parse config source")
			return err
		}

		s.root.Merge(values, tree.SourceMeta(src.Label))
		s.log.Debug().Str("source", src.Label).Msg("applied config source")
	}
	return nil
}

// Merge applies a nested mapping directly with the given metadata.
func (s *Store) Merge(values map[string]any, meta tree.Metadata) {
	s.root.Merge(values, meta)
}

// FilesRead returns the configuration files applied so far, in order.
func (s *Store) FilesRead() []string {
	out := make([]string, len(s.filesRead))
	copy(out, s.filesRead)
	return out
}

// Get returns the value at exactly the given path. A Leaf yields its bare
// value; a Node yields its exported sub-mapping. It fails with
// tree.ErrNotFound when the path doesn't resolve.
func (s *Store) Get(section string, keys ...string) (any, error) {
	entry, err := s.root.Navigate(pathOf(section, keys))
	if err != nil {
		return nil, err
	}
	switch e := entry.(type) {
	case *tree.Leaf:
		return e.Value, nil
	case *tree.Node:
		return e.Export(), nil
	default:
		return nil, fmt.Errorf("unexpected entry kind %T", entry)
	}
}

// GetLeaf returns the Leaf at exactly the given path, including its
// provenance metadata.
func (s *Store) GetLeaf(section string, keys ...string) (*tree.Leaf, error) {
	entry, err := s.root.Navigate(pathOf(section, keys))
	if err != nil {
		return nil, err
	}
	leaf, ok := entry.(*tree.Leaf)
	if !ok {
		return nil, &tree.PathError{Op: "get", Path: pathOf(section, keys), Err: tree.ErrNotFound}
	}
	return leaf, nil
}

// GetMostSpecific resolves the most specific value for a path: the full
// path wins if set, otherwise resolution falls back toward the root.
func (s *Store) GetMostSpecific(section string, keys ...string) (any, error) {
	leaf, err := s.root.GetDeepestLeaf(pathOf(section, keys))
	if err != nil {
		return nil, err
	}
	return leaf.Value, nil
}

// GetMostSpecificOr is GetMostSpecific with a fallback value instead of
// an error when no prefix of the path holds a value.
func (s *Store) GetMostSpecificOr(fallback any, section string, keys ...string) any {
	leaf, err := s.root.GetDeepestLeaf(pathOf(section, keys))
	if err != nil {
		return fallback
	}
	return leaf.Value
}

// Set stores a value at the given path under the "runtime" source tag,
// creating intermediate sections on demand.
func (s *Store) Set(value any, section string, keys ...string) error {
	return s.SetWithMetadata(value, tree.SourceMeta(SourceRuntime), section, keys...)
}

// SetWithMetadata stores a value with caller-supplied provenance metadata.
func (s *Store) SetWithMetadata(value any, meta tree.Metadata, section string, keys ...string) error {
	return s.root.Upsert(pathOf(section, keys), value, meta)
}

// Unset removes the value or section at the given path.
func (s *Store) Unset(section string, keys ...string) error {
	return s.root.Remove(pathOf(section, keys))
}

// Contains reports whether the path resolves to a section or value.
func (s *Store) Contains(section string, keys ...string) bool {
	return s.root.Contains(pathOf(section, keys))
}

// HasSection reports whether a top-level section exists.
func (s *Store) HasSection(name string) bool {
	return s.root.HasChild(name)
}

// AddSection creates an empty top-level section. It fails with
// tree.ErrAlreadyExists if a child of that name is already present.
func (s *Store) AddSection(name string) error {
	_, err := s.root.AddChild(name)
	return err
}

// RemoveSection removes a top-level section and its contents.
func (s *Store) RemoveSection(name string) error {
	return s.root.RemoveChild(name)
}

// SourceOf returns the provenance label of the value at the given path.
func (s *Store) SourceOf(section string, keys ...string) (string, bool) {
	leaf, err := s.GetLeaf(section, keys...)
	if err != nil {
		return "", false
	}
	return leaf.Meta.Source(), true
}

// Sources returns every stored value's dot-separated path mapped to the
// source layer that last set it.
func (s *Store) Sources() map[string]string {
	out := make(map[string]string)
	s.root.Walk(func(path tree.Path, leaf *tree.Leaf) {
		out[path.String()] = leaf.Meta.Source()
	})
	return out
}

// Export produces a nested mapping mirroring the whole tree, with
// provenance metadata dropped.
func (s *Store) Export() map[string]any {
	return s.root.Export()
}

// Tree exposes the underlying root node for path-level operations the
// Store surface doesn't cover.
func (s *Store) Tree() *tree.Node {
	return s.root
}

// Write serializes the whole tree as TOML to w.
func (s *Store) Write(w io.Writer) error {
	data, err := loader.EncoderFor(loader.FormatTOML).Encode(s.Export())
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

// WriteFile serializes the whole tree to path, choosing the format from
// the file extension and creating parent directories as needed.
func (s *Store) WriteFile(path string) error {
	data, err := loader.EncoderFor(loader.FormatForPath(path)).Encode(s.Export())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	s.log.Debug().Str("path", path).Msg("wrote config file")
	return nil
}

// pathOf builds a tree path from the section-plus-keys addressing
// convention.
func pathOf(section string, keys []string) tree.Path {
	path := make(tree.Path, 0, len(keys)+1)
	path = append(path, section)
	return append(path, keys...)
}
