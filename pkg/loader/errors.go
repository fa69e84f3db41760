package loader

import "errors"

var (
	ErrMalformedDocument = errors.New("malformed catalog document")
	ErrInvalidAmount     = errors.New("invalid price amount")
)
