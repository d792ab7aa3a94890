package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a reference to unknown equipment within the tenant.
var ErrNotFound = errors.New("equipment not found")

// ValidationError rejects bad input before anything is persisted. It
// carries enough detail for the caller to correct the field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
