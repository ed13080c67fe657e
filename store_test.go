package stratum

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/stratum/loader"
	"github.com/dshills/stratum/tree"
)

func TestLoadLayerOrdering(t *testing.T) {
	fsys := fstest.MapFS{
		"global.toml": &fstest.MapFile{Data: []byte(`
[server]
port = 8080
host = "example.com"
`)},
		"local.toml": &fstest.MapFile{Data: []byte(`
[server]
port = 9090
`)},
	}

	s := New(
		WithDefaults(map[string]any{
			"server": map[string]any{"port": int64(80), "timeout": int64(30)},
			"debug":  false,
		}),
		WithGlobalPath("global.toml"),
		WithLocalPath("local.toml"),
		WithFileSystem(fsys),
	)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Local file wins over global, global over defaults, untouched
	// defaults survive.
	tests := []struct {
		path       []string
		want       any
		wantSource string
	}{
		{[]string{"server", "port"}, int64(9090), "file: local.toml"},
		{[]string{"server", "host"}, "example.com", "file: global.toml"},
		{[]string{"server", "timeout"}, int64(30), "defaults"},
		{[]string{"debug"}, false, "defaults"},
	}
	for _, tt := range tests {
		got, err := s.Get(tt.path[0], tt.path[1:]...)
		if err != nil {
			t.Fatalf("Get(%v) error = %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Get(%v) = %v, want %v", tt.path, got, tt.want)
		}
		source, ok := s.SourceOf(tt.path[0], tt.path[1:]...)
		if !ok || source != tt.wantSource {
			t.Errorf("SourceOf(%v) = %q, %v, want %q", tt.path, source, ok, tt.wantSource)
		}
	}

	if diff := cmp.Diff([]string{"global.toml", "local.toml"}, s.FilesRead()); diff != "" {
		t.Errorf("FilesRead() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSkipsMissingFiles(t *testing.T) {
	s := New(
		WithGlobalPath("absent.toml"),
		WithLocalPath("also-absent.toml"),
		WithFileSystem(fstest.MapFS{}),
	)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil when files are missing", err)
	}
	if got := s.FilesRead(); len(got) != 0 {
		t.Errorf("FilesRead() = %v, want empty", got)
	}
}

func TestLoadMalformedFileIsAllOrNothing(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml": &fstest.MapFile{Data: []byte("[section\nkey = ")},
	}

	s := New(
		WithDefaults(map[string]any{"key": "default"}),
		WithLocalPath("bad.toml"),
		WithFileSystem(fsys),
	)

	err := s.Load()
	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *loader.ParseError", err)
	}

	// The malformed source contributed nothing.
	got, err := s.Get("key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "default" {
		t.Errorf("key = %v, want untouched default", got)
	}
	if len(s.FilesRead()) != 0 {
		t.Errorf("FilesRead() = %v, want empty after parse failure", s.FilesRead())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STRATUM_SERVER_PORT", "7070")

	s := New(
		WithDefaults(map[string]any{"server": map[string]any{"port": int64(80)}}),
		WithEnvPrefix("STRATUM_"),
	)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, err := s.GetInt("server", "port")
	if err != nil {
		t.Fatalf("GetInt() error = %v", err)
	}
	if got != 7070 {
		t.Errorf("server.port = %d, want 7070", got)
	}
	if source, _ := s.SourceOf("server", "port"); source != SourceEnvironment {
		t.Errorf("SourceOf() = %q, want %q", source, SourceEnvironment)
	}
}

func TestLoadBytes(t *testing.T) {
	s := New()
	err := s.LoadBytes(
		ByteSource{Label: "defaults", Data: []byte(`a = 1`), Format: loader.FormatTOML},
		ByteSource{Label: "override", Data: []byte(`{"a": 2}`), Format: loader.FormatJSON},
	)
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}

	leaf, err := s.GetLeaf("a")
	if err != nil {
		t.Fatalf("GetLeaf() error = %v", err)
	}
	if leaf.Meta.Source() != "override" {
		t.Errorf("Source = %q, want %q", leaf.Meta.Source(), "override")
	}

	err = s.LoadBytes(ByteSource{Label: "broken", Data: []byte("{"), Format: loader.FormatJSON})
	if err == nil {
		t.Fatal("LoadBytes() error = nil, want parse error")
	}
	if src, _ := s.SourceOf("a"); src != "override" {
		t.Errorf("failed source must not change provenance, got %q", src)
	}
}

func TestSetUnset(t *testing.T) {
	s := New(WithDefaults(map[string]any{"section": map[string]any{"key": 1}}))

	if err := s.Set(2, "section", "key"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if source, _ := s.SourceOf("section", "key"); source != SourceRuntime {
		t.Errorf("SourceOf() = %q, want %q", source, SourceRuntime)
	}

	if err := s.Unset("section", "key"); err != nil {
		t.Fatalf("Unset() error = %v", err)
	}
	if s.Contains("section", "key") {
		t.Error("Contains() = true after Unset")
	}
	if err := s.Unset("section", "key"); !errors.Is(err, tree.ErrNotFound) {
		t.Errorf("second Unset() error = %v, want ErrNotFound", err)
	}
}

func TestSections(t *testing.T) {
	s := New()

	if err := s.AddSection("plugins"); err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	if !s.HasSection("plugins") {
		t.Error("HasSection() = false after AddSection")
	}
	if err := s.AddSection("plugins"); !errors.Is(err, tree.ErrAlreadyExists) {
		t.Errorf("AddSection() error = %v, want ErrAlreadyExists", err)
	}
	if err := s.RemoveSection("plugins"); err != nil {
		t.Fatalf("RemoveSection() error = %v", err)
	}
	if err := s.RemoveSection("plugins"); !errors.Is(err, tree.ErrNotFound) {
		t.Errorf("RemoveSection() error = %v, want ErrNotFound", err)
	}
}

func TestGetMostSpecific(t *testing.T) {
	s := New(WithDefaults(map[string]any{
		"plot": map[string]any{
			"dpi": int64(100),
			"pdf": map[string]any{"dpi": int64(300)},
		},
	}))

	got, err := s.GetMostSpecific("plot", "pdf", "dpi")
	if err != nil {
		t.Fatalf("GetMostSpecific() error = %v", err)
	}
	if got != int64(300) {
		t.Errorf("plot.pdf.dpi = %v, want 300", got)
	}

	if got := s.GetMostSpecificOr(int64(42), "plot", "png", "dpi"); got != int64(42) {
		t.Errorf("GetMostSpecificOr() = %v, want fallback 42", got)
	}

	if _, err := s.GetMostSpecific("missing"); !errors.Is(err, tree.ErrNotFound) {
		t.Errorf("GetMostSpecific() error = %v, want ErrNotFound", err)
	}
}

func TestGetNodeExportsSubtree(t *testing.T) {
	s := New(WithDefaults(map[string]any{
		"server": map[string]any{"port": int64(8080)},
	}))

	got, err := s.Get("server")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := map[string]any{"port": int64(8080)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get(section) mismatch (-want +got):\n%s", diff)
	}
}

func TestSources(t *testing.T) {
	s := New(WithDefaults(map[string]any{
		"a": int64(1),
		"b": map[string]any{"c": int64(2)},
	}))
	if err := s.Set(int64(3), "b", "c"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	want := map[string]string{
		"a":   SourceDefaults,
		"b.c": SourceRuntime,
	}
	if diff := cmp.Diff(want, s.Sources()); diff != "" {
		t.Errorf("Sources() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "app.toml")

	s := New(WithDefaults(map[string]any{
		"server": map[string]any{"port": int64(8080)},
		"name":   "stratum",
	}))
	if err := s.Set(int64(9090), "server", "port"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	reloaded := New(WithLocalPath(path))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(s.Export(), reloaded.Export()); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite(t *testing.T) {
	s := New(WithDefaults(map[string]any{"key": "value"}))

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	parsed, err := loader.Parse(loader.FormatTOML, "<buffer>", buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parsed["key"] != "value" {
		t.Errorf("key = %v, want %q", parsed["key"], "value")
	}
}

func TestWriteFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")

	s := New(WithDefaults(map[string]any{"key": "value"}))
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	parsed, err := loader.Parse(loader.FormatYAML, path, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parsed["key"] != "value" {
		t.Errorf("key = %v, want %q", parsed["key"], "value")
	}
}
