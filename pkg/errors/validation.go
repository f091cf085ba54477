package errors

import (
	"strings"
	"unicode"
)

// maxCommitIDLength bounds commit identifiers. SHA-256 object names are 64
// hex characters; anything far beyond that is not a commit ID.
const maxCommitIDLength = 128

// ValidateCommitID validates a commit identifier.
//
// The rules are intentionally loose since IDs are opaque to the layout:
//   - No empty IDs
//   - No whitespace or control characters (IDs are space-separated in git log text)
//   - Maximum length of 128 characters
func ValidateCommitID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidCommit, "commit ID cannot be empty")
	}

	if len(id) > maxCommitIDLength {
		return New(ErrCodeInvalidCommit, "commit ID too long (max %d characters)", maxCommitIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCommit, "commit ID contains invalid characters: %q", id)
		}
	}

	return nil
}

// ValidatePath validates an output or input file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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

// ValidateFormat checks that format is one of the supported names.
// Comparison is case-insensitive.
func ValidateFormat(format string, supported []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	for _, s := range supported {
		if strings.EqualFold(format, s) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", format, strings.Join(supported, ", "))
}
