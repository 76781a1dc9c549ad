package providers

import (
	"errors"
	"fmt"
)

// ConfigurationError means a provider cannot be called at all because its
// credential env var is unset. No network request was attempted.
type ConfigurationError struct {
	Provider string
	EnvVar   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s is not configured: environment variable %s is not set", e.Provider, e.EnvVar)
}

// TransportError covers non-2xx upstream responses and network failures.
// Body holds the raw upstream response so operators can see the real
// provider error instead of a sanitized summary.
type TransportError struct {
	Provider   string
	StatusCode int
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("provider %s request failed: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("provider %s request failed", e.Provider)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// EmptyResponseError means the provider answered successfully but the
// response carried no text.
type EmptyResponseError struct {
	Provider string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("provider %s returned an empty response", e.Provider)
}

// IsConfigurationError reports whether err is a missing-credential failure
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsTransportError reports whether err is an upstream or network failure
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsEmptyResponseError reports whether err is an empty completion
func IsEmptyResponseError(err error) bool {
	var ee *EmptyResponseError
	return errors.As(err, &ee)
}
