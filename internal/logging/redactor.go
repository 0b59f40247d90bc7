package logging

import (
	"regexp"
	"strings"
)

// redactor redacts sensitive values in log key-value pairs. Beyond the usual
// credential keys it also covers the personal fields carried by ticket
// reservations (email, phone).
type redactor struct {
	sensitiveWords map[string]bool
}

// newRedactor creates a new redactor with the default sensitive key pattern.
func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "credential", "email", "phone"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{
		sensitiveWords: m,
	}
}

// redact walks through a slice of key-value pairs (flattened as
// [key1, value1, key2, value2, ...]). If a key contains a sensitive word as
// a separate segment, its value is replaced with "[REDACTED]".
// Returns a new slice with redacted values; the original slice is not modified.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		if r.isSensitive(key) {
			result[i+1] = "[REDACTED]"
		}
	}
	return result
}

// isSensitive returns true if the key contains any sensitive word as a separate segment.
// Segments are split by non-alphanumeric characters (including underscore).
func (r *redactor) isSensitive(key string) bool {
	key = strings.ToLower(key)
	parts := splitByNonAlphanumeric(key)
	for _, part := range parts {
		if r.sensitiveWords[part] {
			return true
		}
	}
	return false
}

// splitByNonAlphanumeric splits a string by sequences of non-alphanumeric characters.
func splitByNonAlphanumeric(s string) []string {
	re := regexp.MustCompile(`[^a-z0-9]+`)
	return re.Split(s, -1)
}
