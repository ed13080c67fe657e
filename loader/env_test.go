package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvLoaderLoad(t *testing.T) {
	t.Setenv("STRATUM_SERVER_PORT", "8080")
	t.Setenv("STRATUM_SERVER_HOST", "localhost")
	t.Setenv("STRATUM_DEBUG", "true")
	t.Setenv("OTHER_VALUE", "ignored")

	l := NewEnvLoader("STRATUM_")
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := map[string]any{
		"server": map[string]any{
			"port": int64(8080),
			"host": "localhost",
		},
		"debug": true,
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvLoaderEmpty(t *testing.T) {
	l := NewEnvLoader("NO_SUCH_PREFIX_")
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(config) != 0 {
		t.Errorf("Load() = %v, want empty map", config)
	}
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"8080", int64(8080)},
		{"-3", int64(-3)},
		{"2.5", 2.5},
		{"true", true},
		{"false", false},
		{"plain", "plain"},
		{"", ""},
		{`["a","b"]`, []any{"a", "b"}},
		{"[not json", "[not json"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseScalar(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseScalar(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
