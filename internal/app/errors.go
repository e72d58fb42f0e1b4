package service

import "errors"

// ErrNotStarted is returned by catalogue reads before Start.
var ErrNotStarted = errors.New("service not started")
