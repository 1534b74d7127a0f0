package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateFrameCount rejects negative frame budgets.
// Zero is allowed and produces an empty trajectory.
func ValidateFrameCount(frames int) error {
	if frames < 0 {
		return New(ErrCodeConfiguration, "frame count must be >= 0, got %d", frames)
	}
	return nil
}

// ValidateFraction checks that an interpolation fraction lies in [0,1].
// Values outside the range indicate a caller bug and are never clamped.
func ValidateFraction(f float64) error {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return New(ErrCodeConfiguration, "interpolation fraction %v outside [0,1]", f)
	}
	return nil
}

// ValidateThreshold checks the active-object distance threshold.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return New(ErrCodeConfiguration, "active threshold must be a finite value >= 0, got %v", t)
	}
	return nil
}

// ValidateOutputDir validates an output root directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputDir(path string) error {
	if path == "" {
		return New(ErrCodeConfiguration, "output directory cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeConfiguration, "output directory too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeConfiguration, "output directory contains invalid characters")
		}
	}
	return nil
}

// prefixRegex matches artifact file prefixes such as "CLEVR".
var prefixRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)

// ValidatePrefix validates the artifact file prefix.
// It must be a simple token without path separators or underscores,
// since underscores separate the name components on disk.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeConfiguration, "artifact prefix cannot be empty")
	}
	if strings.ContainsAny(prefix, "/\\") {
		return New(ErrCodeConfiguration, "artifact prefix cannot contain path separators")
	}
	if !prefixRegex.MatchString(prefix) {
		return New(ErrCodeConfiguration, "invalid artifact prefix: %q", prefix)
	}
	return nil
}
