package harness

import (
	"errors"
	"fmt"
	"time"

	"github.com/kdfbench/kdfbench/internal/kdf"
)

// ErrUnknownBackend is returned when a run names a backend the harness was
// not configured with.
var ErrUnknownBackend = errors.New("backend not configured")

// HarnessError wraps a failed run with the state it failed in and the time
// spent before the failure. The original cause stays reachable through
// errors.Is and errors.As.
type HarnessError struct {
	Backend kdf.Kind
	State   State
	Elapsed time.Duration
	Err     error
}

func (e *HarnessError) Error() string {
	if e.State == StateBuilding {
		return fmt.Sprintf("%s run failed while building request: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("%s run failed after %s: %v", e.Backend, e.Elapsed, e.Err)
}

func (e *HarnessError) Unwrap() error {
	return e.Err
}
