package world

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError describes a single out-of-range generation parameter.
type ConfigError struct {
	Field  string // TOML/JSON key of the offending option
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %v: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) succeed for any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
