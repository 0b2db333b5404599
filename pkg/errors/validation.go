package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxIDLength bounds entity, node and link identifiers. The solver truncates
// longer names, so rejecting them early avoids silent lookups of the wrong object.
const maxIDLength = 256

// ValidateID validates an entity, node or link identifier.
//
// The rules follow what the solver's input format accepts:
//   - No empty identifiers
//   - No whitespace (input files are whitespace-delimited)
//   - No control characters
//   - Maximum length of 256 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidParameter, "%s ID cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidParameter, "%s ID too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidParameter, "%s ID %q contains whitespace or control characters", kind, id)
		}
	}
	return nil
}

// ValidateModelPath validates the path of a model input file.
// It must be non-empty, free of null bytes, and carry the ".inp" extension
// the solver uses to derive report and output file names.
func ValidateModelPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidParameter, "model path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidParameter, "model path contains invalid characters")
	}
	if !strings.EqualFold(filepath.Ext(path), ".inp") {
		return New(ErrCodeInvalidParameter, "model path %q must have the .inp extension", path)
	}
	return nil
}
