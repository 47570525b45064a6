package services

import "errors"

var (
	// ErrNotFound means the requested group, author, or post does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner means an authenticated user tried to mutate a post they do
	// not own. Handlers map it to a redirect back to the post's detail view,
	// never to a permission error.
	ErrNotOwner = errors.New("not the post author")
)

// ValidationError carries field-keyed messages for a rejected submission.
// Nothing is persisted when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "validation failed"
}

func validationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
