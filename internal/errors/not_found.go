package errors

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that an operation required an existing entity and
// none was found for the given key.
type NotFoundError struct {
	Kind string // "series", "volume", "edition"
	Key  string // the id or lookup key that failed to resolve
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// NewNotFoundError creates a NotFoundError for the given entity kind and key.
func NewNotFoundError(kind, key string) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

// IsNotFound reports whether err is a NotFoundError (even when wrapped).
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
