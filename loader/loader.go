// Package loader provides the parse and serialize collaborators for the
// stratum configuration store.
//
// Loaders turn on-disk bytes (TOML, YAML, JSON) or environment variables
// into the nested map[string]any mappings the tree merges; Encoders turn
// exported mappings back into bytes. Parsing is all-or-nothing per
// source: a malformed source yields an error and no mapping.
package loader

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// FileLoader is the interface for loaders that read from files.
type FileLoader interface {
	Loader
	// LoadFrom reads configuration from a specific path.
	LoadFrom(path string) (map[string]any, error)
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	// LoadFromReader reads configuration from a reader.
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// Encoder is the interface for serializing a nested mapping back to bytes.
type Encoder interface {
	Encode(config map[string]any) ([]byte, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS-backed FileSystem.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format identifies a supported serialization format.
type Format uint8

const (
	// FormatTOML is the default on-disk format.
	FormatTOML Format = iota
	// FormatYAML covers .yaml and .yml files.
	FormatYAML
	// FormatJSON covers .json files.
	FormatJSON
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat returns the Format named by s ("toml", "yaml", "json").
func ParseFormat(s string) (Format, error) {
	switch s {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatTOML, fmt.Errorf("unknown format %q", s)
	}
}

// FormatForPath picks a Format from the file extension, defaulting to TOML.
func FormatForPath(path string) Format {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// ForPath returns a FileLoader for the given path, chosen by extension.
func ForPath(fsys FileSystem, path string) FileLoader {
	switch FormatForPath(path) {
	case FormatYAML:
		return NewYAMLLoaderWithFS(fsys, path)
	case FormatJSON:
		return NewJSONLoaderWithFS(fsys, path)
	default:
		return NewTOMLLoaderWithFS(fsys, path)
	}
}

// EncoderFor returns the Encoder for a format.
func EncoderFor(format Format) Encoder {
	switch format {
	case FormatYAML:
		return NewYAMLLoader("")
	case FormatJSON:
		return NewJSONLoader("")
	default:
		return NewTOMLLoader("")
	}
}

// Parse decodes raw bytes in the given format into a nested mapping.
// The source label is used only in error reporting.
func Parse(format Format, source string, data []byte) (map[string]any, error) {
	switch format {
	case FormatYAML:
		return (&YAMLLoader{}).parse(source, data)
	case FormatJSON:
		return (&JSONLoader{}).parse(source, data)
	default:
		return (&TOMLLoader{}).parse(source, data)
	}
}

// ParseError represents an error while parsing a configuration source.
type ParseError struct {
	// Path is the file path or source label that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
