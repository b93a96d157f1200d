package recorder

import (
	"tickerhub/internal/errors"
	"tickerhub/pkg/exception"
)

const defaultFilePrefix = "fixture"

// Config controls where fixtures are stored.
type Config struct {
	Dir        string
	FilePrefix string
}

// DefaultConfig returns a baseline configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:        dir,
		FilePrefix: defaultFilePrefix,
	}
}

func (c Config) withDefaults() Config {
	if c.FilePrefix == "" {
		c.FilePrefix = defaultFilePrefix
	}
	return c
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.Dir == "" {
		return errors.Mark(exception.ErrInvalidConfig, nil, "recorder: Dir is empty")
	}
	return nil
}
