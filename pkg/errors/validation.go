package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node ids accepted from callers. Ids grow with
// tree depth, so the limit is generous.
const MaxNodeIDLength = 8192

// ValidateNodeID validates a node id supplied by a caller (CLI argument,
// HTTP request, edit script) before it is looked up in a tree.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No NUL bytes
//   - Maximum length of MaxNodeIDLength bytes
//
// Whether the id exists is decided by the tree, not here.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d bytes)", MaxNodeIDLength)
	}
	if strings.ContainsRune(id, '\x00') {
		return New(ErrCodeInvalidInput, "node id contains a NUL byte")
	}
	return nil
}

// ValidateRowIndex validates a property row index.
func ValidateRowIndex(idx int) error {
	if idx < 0 {
		return New(ErrCodeInvalidInput, "row index cannot be negative: %d", idx)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed []string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", format, strings.Join(allowed, ", "))
}
