// Package util provides logging helpers and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrNotConnected     = errors.New("device not connected")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrAssertionFailed  = errors.New("assertion failed")
	ErrUnsupportedStore = errors.New("unsupported state store backend")
)

// FailureError carries every assertion failure collected during a run.
// Error() returns the whole log so that all failing cases are visible at once.
type FailureError struct {
	Failures []string
}

func (e *FailureError) Error() string {
	if len(e.Failures) == 1 {
		return "1 assertion failed: " + e.Failures[0]
	}
	return fmt.Sprintf("%d assertions failed:\n  - %s", len(e.Failures), strings.Join(e.Failures, "\n  - "))
}

func (e *FailureError) Unwrap() error {
	return ErrAssertionFailed
}

// FailureLog accumulates assertion failures in order.
type FailureLog struct {
	failures []string
}

// Addf appends a formatted failure message.
func (l *FailureLog) Addf(format string, args ...interface{}) *FailureLog {
	l.failures = append(l.failures, fmt.Sprintf(format, args...))
	return l
}

// Len returns the number of recorded failures
func (l *FailureLog) Len() int {
	return len(l.failures)
}

// Failures returns a copy of the recorded messages.
func (l *FailureLog) Failures() []string {
	out := make([]string, len(l.failures))
	copy(out, l.failures)
	return out
}

// Build returns a *FailureError or nil if nothing was recorded.
func (l *FailureLog) Build() error {
	if len(l.failures) == 0 {
		return nil
	}
	return &FailureError{Failures: l.Failures()}
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigError creates a configuration error
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}
