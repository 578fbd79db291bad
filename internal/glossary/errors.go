package glossary

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a slug resolves to no term.
	ErrNotFound = errors.New("term not found")

	// ErrInvalidFacet is returned for a malformed filter value.
	ErrInvalidFacet = errors.New("invalid facet")
)

// LoadError reports that the term collection could not be fetched or parsed.
// It is distinct from an empty result: callers must surface it as an error
// state, never as an empty directory.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load glossary from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
