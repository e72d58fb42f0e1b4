package repository

import "errors"

// Sentinel kinds for catalogue errors.
var (
	ErrNotFound    = errors.New("project not found")
	ErrDuplicateID = errors.New("duplicate project id")
	ErrInvalid     = errors.New("invalid project record")
)
