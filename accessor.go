package stratum

import (
	"fmt"
	"math"
)

// Typed accessors perform exactly the conversion the caller requests and
// nothing more: a value of the wrong kind is a TypeError, not a best-effort
// coercion. Numeric cases cover the types the serialization formats
// produce (int64 from TOML, int from YAML, float64 from JSON).

// GetString returns the string value at the given path.
func (s *Store) GetString(section string, keys ...string) (string, error) {
	val, err := s.Get(section, keys...)
	if err != nil {
		return "", err
	}

	str, ok := val.(string)
	if !ok {
		return "", typeErr(val, "string", section, keys)
	}
	return str, nil
}

// GetInt returns the integer value at the given path.
func (s *Store) GetInt(section string, keys ...string) (int, error) {
	val, err := s.Get(section, keys...)
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, typeErr(val, "int", section, keys)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, typeErr(val, "int", section, keys)
		}
		return int(v), nil
	default:
		return 0, typeErr(val, "int", section, keys)
	}
}

// GetBool returns the boolean value at the given path.
func (s *Store) GetBool(section string, keys ...string) (bool, error) {
	val, err := s.Get(section, keys...)
	if err != nil {
		return false, err
	}

	b, ok := val.(bool)
	if !ok {
		return false, typeErr(val, "bool", section, keys)
	}
	return b, nil
}

// GetFloat returns the floating-point value at the given path.
func (s *Store) GetFloat(section string, keys ...string) (float64, error) {
	val, err := s.Get(section, keys...)
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, typeErr(val, "float64", section, keys)
	}
}

// GetStringSlice returns the string sequence at the given path. Sequences
// decoded as []any are accepted when every element is a string.
func (s *Store) GetStringSlice(section string, keys ...string) ([]string, error) {
	val, err := s.Get(section, keys...)
	if err != nil {
		return nil, err
	}

	switch v := val.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, typeErr(val, "[]string", section, keys)
			}
			out[i] = str
		}
		return out, nil
	default:
		return nil, typeErr(val, "[]string", section, keys)
	}
}

func typeErr(val any, expected string, section string, keys []string) error {
	return &TypeError{
		Path:     pathOf(section, keys).String(),
		Expected: expected,
		Actual:   fmt.Sprintf("%T", val),
	}
}
