package sitecheck

import "errors"

// Error constants.
var (
	ErrUnhealthy     = errors.New("site unhealthy")
	ErrStatus        = errors.New("unexpected status")
	ErrMismatch      = errors.New("filter result mismatch")
	ErrNondeterministic = errors.New("label output differs between requests")
)
