package sceneedit

import "errors"

var (
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrNoLoader           = errors.New("no loader registered for format")
	ErrInvalidEnvironment = errors.New("invalid environment image")
	ErrConfigFormat       = errors.New("unsupported config format")
)
