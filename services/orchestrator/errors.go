package orchestrator

import (
	"errors"
	"fmt"
)

// ExhaustionError is the terminal failure of a fallback chain: every
// enabled provider failed, or none were enabled. The last attempt's error
// is embedded so callers see the real upstream message.
type ExhaustionError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustionError) Error() string {
	if e.LastErr == nil {
		return "all providers exhausted: no enabled providers available"
	}
	return fmt.Sprintf("all providers exhausted after %d attempts, last error: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustionError) Unwrap() error {
	return e.LastErr
}

// IsExhaustionError reports whether err is a fallback-chain exhaustion
func IsExhaustionError(err error) bool {
	var ee *ExhaustionError
	return errors.As(err, &ee)
}
