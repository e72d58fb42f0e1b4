package theme

import "errors"

var (
	// ErrInvalidTheme is returned by Parse for unknown values.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrNoVisitor means there is no visitor id to store a preference under.
	ErrNoVisitor = errors.New("no visitor id")
	// ErrStore wraps failures of the underlying Store.
	ErrStore = errors.New("theme store failure")
)
