// Package errors provides typed errors for the application
package errors

// baseError is the base implementation for all error types
type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// PlatformError represents a failed platform query or send. Membership
// checks treat it as unsatisfied, notification sends log and drop it;
// it is never fatal.
type PlatformError struct {
	baseError
	cause error
}

// NewPlatformError creates a new PlatformError wrapping the cause
func NewPlatformError(msg string, cause error) *PlatformError {
	return &PlatformError{baseError{msg: msg}, cause}
}

// Unwrap returns the underlying platform failure
func (e *PlatformError) Unwrap() error {
	return e.cause
}

// ConfigError represents a missing required credential, fatal at startup only.
type ConfigError struct {
	baseError
}

// NewConfigError creates a new ConfigError
func NewConfigError(msg string) *ConfigError {
	return &ConfigError{baseError{msg: msg}}
}
