package errors

import (
	"path"
	"strings"
	"unicode"
)

// ValidateCellPattern validates a cell exclusion pattern.
// Patterns are either exact cell names or shell globs as understood by
// [path.Match] (e.g. "viewof_*").
func ValidateCellPattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidPattern, "cell pattern cannot be empty")
	}
	for _, r := range pattern {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPattern, "cell pattern contains invalid control characters")
		}
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return Wrap(ErrCodeInvalidPattern, err, "malformed cell pattern %q", pattern)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
