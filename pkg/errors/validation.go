package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePath validates a local input or output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !IsURL(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a file path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateSpacing checks a spacing parameter. Spacings must be finite and
// non-negative; zero collapses the corresponding axis.
func ValidateSpacing(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameter, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidParameter, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// ValidateLevel checks an expand level.
func ValidateLevel(level int) error {
	if level < 0 {
		return New(ErrCodeInvalidParameter, "level cannot be negative (got %d)", level)
	}
	return nil
}
