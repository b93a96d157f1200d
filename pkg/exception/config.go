package exception

import "errors"

var (
	ErrInvalidConfig = errors.New("config: invalid")
)
