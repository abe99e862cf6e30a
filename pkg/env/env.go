// Package env reads the handful of non-prefixed environment variables the
// backend honors (PaaS conventions like PORT and LOG_FORMAT). Everything else
// goes through pkg/config.
package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return fallback
	}
	return val
}
