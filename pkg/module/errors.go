package module

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Resolve when the requested name was never
// registered. Check with errors.Is.
var ErrNotFound = errors.New("module not found")

// LoadError wraps a failure to construct or initialize a widget. It
// identifies the offending module; other registry entries are unaffected.
type LoadError struct {
	// Name is the registry key of the module that failed to load.
	Name string

	// Err is the underlying construction or initialization error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("module %q failed to load: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As chains.
func (e *LoadError) Unwrap() error {
	return e.Err
}
