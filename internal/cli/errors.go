package cli

import "fmt"

type notFoundError struct {
	kind string
	name string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.name)
}

func errNotFound(kind, name string) error {
	return notFoundError{kind: kind, name: name}
}

// operationError wraps a store Outcome message so a failed operation surfaces
// as a normal CLI error (non-zero exit) with the store's wording intact.
type operationError struct {
	message string
}

func (e operationError) Error() string { return e.message }

func errOperation(message string) error {
	return operationError{message: message}
}
