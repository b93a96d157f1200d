package exception

import "errors"

var (
	ErrFixtureNotFound = errors.New("recorder: fixture not found")
)
