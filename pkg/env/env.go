// Package env holds one-off environment lookups for the few settings read
// outside the envconfig structs.
package env

import "os"

// StringOr returns the variable's value, or fallback when it is unset or
// empty.
func StringOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
