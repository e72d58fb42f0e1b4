package qrservice

import "errors"

// Sentinel kinds for QR fetch failures.
var (
	ErrEmptyData   = errors.New("qr data is empty")
	ErrNotImage    = errors.New("qr response is not an image")
	ErrUnavailable = errors.New("qr service unavailable")
	ErrTooLarge    = errors.New("qr response too large")
)
