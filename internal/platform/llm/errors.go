package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable marks transport, upstream auth and upstream
	// protocol failures. Callers may retry the whole turn.
	ErrBackendUnavailable = errors.New("language model backend unavailable")
	// ErrMissingConfig marks an adapter invoked without its connection settings.
	ErrMissingConfig = errors.New("language model backend not configured")
)

// BackendError describes a failed backend call.
type BackendError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *BackendError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s backend", e.Provider)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

func (e *BackendError) Unwrap() error { return e.Err }

func (e *BackendError) Is(target error) bool { return target == ErrBackendUnavailable }

// HTTPStatusCode reports the upstream status, zero for transport failures.
func (e *BackendError) HTTPStatusCode() int { return e.StatusCode }

func missingConfig(provider string, vars ...string) error {
	return fmt.Errorf("%w: %s requires %v", ErrMissingConfig, provider, vars)
}
