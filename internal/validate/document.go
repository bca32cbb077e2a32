package validate

import (
	"fmt"
	"strings"
	"unicode"
)

// DocumentID validates a document identifier and returns it with
// surrounding whitespace removed.
//
// Validation rules:
//   - Empty (or all-whitespace) IDs rejected
//   - Null bytes and other control characters rejected; the badger backend
//     uses a null byte as a key separator
//   - Max length enforced if maxLen > 0
func DocumentID(id string, maxLen int) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDocumentID)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: control character %q", ErrInvalidDocumentID, r)
		}
	}
	if maxLen > 0 && len(id) > maxLen {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrDocumentIDTooLong, len(id), maxLen)
	}
	return id, nil
}
