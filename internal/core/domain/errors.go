package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the whole client. Transport classifies once at the
// boundary; everything above matches with IsKind instead of re-deriving
// kinds from status codes.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("unauthenticated")
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("not found")
	ErrServer     = errors.New("server error")
	ErrNetwork    = errors.New("network failure")
	ErrUnknown    = errors.New("unknown error")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
