package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
//
// Variables named PREFIX_SECTION_KEY become nested paths: with prefix
// "STRATUM_", STRATUM_SERVER_PORT=8080 yields {"server": {"port": 8080}}.
type EnvLoader struct {
	prefix string // Environment variable prefix (e.g., "STRATUM_")
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "STRATUM_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// Load reads prefixed environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		segments := l.envToPath(name)
		if len(segments) == 0 {
			continue
		}
		setByPath(config, segments, ParseScalar(value))
	}

	return config, nil
}

// envToPath converts STRATUM_SERVER_PORT to ["server", "port"].
func (l *EnvLoader) envToPath(env string) []string {
	name := strings.TrimPrefix(env, l.prefix)
	if name == "" {
		return nil
	}

	parts := strings.Split(name, "_")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		segments = append(segments, strings.ToLower(part))
	}
	return segments
}

// setByPath sets a value in a nested map, creating intermediate maps as
// needed. A non-map value occupying an intermediate slot is replaced.
func setByPath(config map[string]any, segments []string, value any) {
	current := config
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// ParseScalar interprets a string value the way a configuration file
// would: booleans, integers, and floats are converted, JSON arrays and
// objects are decoded, anything else stays a string.
func ParseScalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}
