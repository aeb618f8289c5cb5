package platform

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup parses the variable key with parse; unset, blank or unparsable
// values yield fallback.
func lookup[T any](key string, parse func(string) (T, error), fallback T) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if value, err := parse(raw); err == nil {
		return value
	}
	return fallback
}

func Get(key, defaultValue string) string {
	return lookup(key, func(s string) (string, error) { return s, nil }, defaultValue)
}

func GetAsInt(key string, defaultValue int) int {
	return lookup(key, strconv.Atoi, defaultValue)
}

// GetAsDuration reads a Go duration ("90s", "10m"). defaultValue uses the
// same syntax.
func GetAsDuration(key, defaultValue string) time.Duration {
	fallback, err := time.ParseDuration(defaultValue)
	if err != nil {
		fallback = 5 * time.Second
	}
	return lookup(key, time.ParseDuration, fallback)
}
