package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing or invalid environment configuration.
// It is always returned before any network activity happens.
type ConfigurationError struct {
	Keys   []string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if len(e.Keys) == 0 {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Reason, strings.Join(e.Keys, ", "))
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
