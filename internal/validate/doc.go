// Package validate provides input validation for the revision engine.
//
// Validation is minimal. It rejects inputs that would corrupt storage keys
// or bloat the database (null bytes, control characters, excessive sizes)
// and otherwise treats document IDs and text as opaque.
//
// All validation errors wrap one of the sentinel errors defined in errors.go:
//
//	if errors.Is(err, validate.ErrInvalidDocumentID) {
//	    // handle invalid id
//	}
package validate
