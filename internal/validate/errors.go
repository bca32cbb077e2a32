// errors.go defines sentinel errors for validation failures.
//
// These errors are used with errors.Is() for type-safe error checking.
// Detailed messages are provided by wrapping them with fmt.Errorf in the
// validation functions.

package validate

import "errors"

var (
	ErrInvalidDocumentID = errors.New("invalid document id")
	ErrDocumentIDTooLong = errors.New("document id too long")
	ErrContentTooLarge   = errors.New("content too large")
)
