package config

import (
	"os"
	"strconv"
)

// GetEnv retrieves and parses an environment variable.
// Returns (zero, false) if the variable is unset or does not parse as T.
func GetEnv[T string | int | bool](key string) (T, bool) {
	value := os.Getenv(key)
	var zero T

	if value == "" {
		return zero, false
	}

	var result any
	switch any(zero).(type) {
	case string:
		result = value
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return zero, false
		}
		result = n
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return zero, false
		}
		result = b
	default:
		return zero, false
	}

	return result.(T), true
}
