package stratum

import (
	"os"
	"path/filepath"
)

// DefaultGlobalPath returns the conventional user-wide configuration file
// for an application: $XDG_CONFIG_HOME/<app>/<app>.toml, falling back to
// ~/.config/<app>/<app>.toml.
func DefaultGlobalPath(app string) string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, app, app+".toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", app, app+".toml")
}

// DefaultLocalPath returns the conventional per-directory configuration
// file for an application: <cwd>/<app>.toml.
func DefaultLocalPath(app string) string {
	wd, err := os.Getwd()
	if err != nil {
		return app + ".toml"
	}
	return filepath.Join(wd, app+".toml")
}
