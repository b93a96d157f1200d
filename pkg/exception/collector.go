package exception

import "errors"

var (
	ErrInvalidInterval  = errors.New("collector: interval must be positive")
	ErrCollectorRunning = errors.New("collector: already running")
)
