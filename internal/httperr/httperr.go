package httperr

import "fmt"

// Error is a failure that already knows the HTTP status it should surface as.
// Anything else bubbling out of a handler is treated as a 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}
