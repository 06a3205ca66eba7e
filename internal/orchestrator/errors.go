package orchestrator

import (
	"fmt"
)

// ProcessLaunchError reports a local run that could not be started or whose
// output could not be read.
type ProcessLaunchError struct {
	Op      string
	Command string
	Err     error
}

func (e *ProcessLaunchError) Error() string {
	return fmt.Sprintf("cannot %s %q: %v", e.Op, e.Command, e.Err)
}

func (e *ProcessLaunchError) Unwrap() error {
	return e.Err
}

// NonZeroExitError reports a local run that finished with a failure status.
type NonZeroExitError struct {
	Code int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("jmeter exited with code %d", e.Code)
}

// RemoteRunError reports a failed call to the remote test runner: either a
// non-2xx status or, when Err is set, a transport failure.
type RemoteRunError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *RemoteRunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("unexpected response from %s: %s", e.URL, e.Status)
}

func (e *RemoteRunError) Unwrap() error {
	return e.Err
}
