package exception

import "errors"

var (
	ErrUnknownDriver   = errors.New("registry: unknown driver")
	ErrDuplicateDriver = errors.New("registry: duplicate driver")
	ErrEmptyDriverName = errors.New("registry: empty driver name")
)
