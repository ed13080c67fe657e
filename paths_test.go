package stratum

import (
	"path/filepath"
	"testing"
)

func TestDefaultGlobalPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	want := filepath.Join("/tmp/xdg", "myapp", "myapp.toml")
	if got := DefaultGlobalPath("myapp"); got != want {
		t.Errorf("DefaultGlobalPath() = %q, want %q", got, want)
	}
}

func TestDefaultGlobalPathHomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")

	want := filepath.Join("/home/tester", ".config", "myapp", "myapp.toml")
	if got := DefaultGlobalPath("myapp"); got != want {
		t.Errorf("DefaultGlobalPath() = %q, want %q", got, want)
	}
}

func TestDefaultLocalPath(t *testing.T) {
	got := DefaultLocalPath("myapp")
	if filepath.Base(got) != "myapp.toml" {
		t.Errorf("DefaultLocalPath() = %q, want basename myapp.toml", got)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("DefaultLocalPath() = %q, want absolute path", got)
	}
}
