package analyses

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrPersistence      = errors.New("persistence failed")
)
