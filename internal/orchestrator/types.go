package orchestrator

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Mode selects where a test runs.
type Mode string

const (
	// ModeLocal runs JMeter as a child process on this machine.
	ModeLocal Mode = "local"
	// ModeRemote submits the test to the remote test runner.
	ModeRemote Mode = "remote"
)

// ParseMode parses "local" or "remote", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLocal:
		return ModeLocal, nil
	case ModeRemote:
		return ModeRemote, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want local or remote)", s)
	}
}

// State is a step of the run state machine.
//
// Local runs go Idle, Preparing, Running, then Succeeded or Failed. Remote
// runs go Idle, Preparing, Submitted, then Pending or Failed; the remote side
// executes on its own and is not polled.
type State string

const (
	StateIdle      State = "idle"
	StatePreparing State = "preparing"
	StateRunning   State = "running"
	StateSubmitted State = "submitted"
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StatePending
}

// Status is the outcome reported in a Result.
type Status string

const (
	StatusSucceeded        Status = "succeeded"
	StatusFailed           Status = "failed"
	StatusSubmittedPending Status = "submitted-pending"
)

// Request asks for one run of a test plan.
type Request struct {
	// TestName is the test plan file name, e.g. "Booking.jmx".
	TestName string
	Mode     Mode
	// FixtureFile, when set, is copied over the active fixture before a
	// local run. Empty means use the active fixture as it is.
	FixtureFile string
}

// Result is the terminal value of a run.
type Result struct {
	RunID    string   `json:"runId" yaml:"runId"`
	TestName string   `json:"test" yaml:"test"`
	Mode     Mode     `json:"mode" yaml:"mode"`
	Status   Status   `json:"status" yaml:"status"`
	ExitCode int      `json:"exitCode" yaml:"exitCode"`
	LogLines []string `json:"logLines,omitempty" yaml:"logLines,omitempty"`
	// StatusURL is the page that shows a remote run's progress.
	StatusURL string        `json:"statusUrl,omitempty" yaml:"statusUrl,omitempty"`
	States    []State       `json:"states" yaml:"states"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Err       error         `json:"-" yaml:"-"`
}

// Error returns the failure message, or "" for a run that did not fail.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Run is a handle on a run in progress.
type Run struct {
	ID      string
	Request Request

	started time.Time
	done    chan struct{}

	mu     sync.Mutex
	state  State
	states []State
	lines  []string
	result Result
}

func newRun(id string, req Request) *Run {
	return &Run{
		ID:      id,
		Request: req,
		started: time.Now(),
		done:    make(chan struct{}),
		state:   StateIdle,
		states:  []State{StateIdle},
	}
}

// State returns the current state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done is closed once the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its result.
func (r *Run) Wait() Result {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

func (r *Run) addLine(line string) {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}
