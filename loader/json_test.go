package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestJSONLoaderLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"app.json": &fstest.MapFile{Data: []byte(`{"server": {"port": 8080}, "name": "stratum"}`)},
	}

	l := NewJSONLoaderWithFS(fsys, "app.json")
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := map[string]any{
		"name": "stratum",
		"server": map[string]any{
			"port": float64(8080),
		},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONLoaderMissingFile(t *testing.T) {
	l := NewJSONLoaderWithFS(fstest.MapFS{}, "absent.json")

	config, err := l.Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v, want nil, nil for missing file", config, err)
	}
}

func TestJSONLoaderParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.json": &fstest.MapFile{Data: []byte("{not json")},
	}

	l := NewJSONLoaderWithFS(fsys, "bad.json")
	_, err := l.Load()

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %T, want *ParseError", err)
	}
}

func TestJSONEncodeRoundTrip(t *testing.T) {
	original := map[string]any{
		"section": map[string]any{"key": "value"},
	}

	l := NewJSONLoader("")
	data, err := l.Encode(original)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	parsed, err := l.LoadFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if diff := cmp.Diff(original, parsed); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
