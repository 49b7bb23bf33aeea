package toggle

import (
	"errors"
	"fmt"
)

// Configuration errors. These indicate a programming mistake in the caller
// and are returned before any element is touched.
var (
	// ErrInvalidMode is returned for a ToggleTo outside autoSelect/hidden/shown.
	ErrInvalidMode = errors.New("invalid toggle mode")

	// ErrMissingSetName is returned when DefineSet is present but blank.
	ErrMissingSetName = errors.New("define set requires a name")

	// ErrInvalidQuery is returned for element types that are not a bare tag name.
	ErrInvalidQuery = errors.New("invalid element query")

	// ErrInvalidBrowser is returned for a browser tag outside the known set.
	ErrInvalidBrowser = errors.New("invalid browser tag")
)

// ElementError records a failure on a single element. Processing continues
// with the remaining elements; all failures are joined into the returned error.
type ElementError struct {
	Index int
	Op    string
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %s: %v", e.Index, e.Op, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
