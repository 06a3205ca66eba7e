// Package orchestrator drives test runs: JMeter as a local child process, or a
// submission to the remote test runner. Every run moves through a small state
// machine whose transitions are published as events.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/campload/internal/ctxlog"
	"github.com/wesleyorama2/campload/internal/http"
	"github.com/wesleyorama2/campload/internal/notify"
)

// FixtureActivator makes a fixture file the one JMeter reads.
type FixtureActivator interface {
	ActiveName() string
	Activate(name string) error
}

// LocalConfig describes the local JMeter installation and workspace.
type LocalConfig struct {
	// JMeterHome is the directory containing the jmeter launcher.
	JMeterHome string
	// Executable is the launcher name inside JMeterHome.
	Executable string
	TestsDir   string
	ResultsDir string
	// GOOS selects the shell. Empty means runtime.GOOS.
	GOOS string
}

// Orchestrator starts runs and tracks them to completion.
type Orchestrator struct {
	sink      notify.Sink
	events    notify.Publisher
	logger    *slog.Logger
	fixtures  FixtureActivator
	local     LocalConfig
	client    *http.Client
	accountID string
	command   func(name string, args ...string) *exec.Cmd
	seq       atomic.Uint64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPublisher sets where state and output events go.
func WithPublisher(p notify.Publisher) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.events = p
		}
	}
}

// WithLogger sets the durable logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFixtures sets the fixture manager used to prepare local runs.
func WithFixtures(f FixtureActivator) Option {
	return func(o *Orchestrator) {
		o.fixtures = f
	}
}

// WithLocal enables local runs.
func WithLocal(cfg LocalConfig) Option {
	return func(o *Orchestrator) {
		o.local = cfg
	}
}

// WithRemote enables remote runs through client for the given account.
func WithRemote(client *http.Client, accountID string) Option {
	return func(o *Orchestrator) {
		o.client = client
		o.accountID = accountID
	}
}

// New creates an Orchestrator reporting to sink.
func New(sink notify.Sink, options ...Option) *Orchestrator {
	o := &Orchestrator{
		sink:    sink,
		events:  notify.Discard,
		logger:  ctxlog.Discard(),
		command: exec.Command,
	}
	for _, option := range options {
		option(o)
	}
	if o.local.Executable == "" {
		o.local.Executable = "jmeter"
	}
	if o.local.GOOS == "" {
		o.local.GOOS = runtime.GOOS
	}
	return o
}

// Start begins a run and returns without waiting for it to finish. Preparation
// failures complete the run immediately; the returned handle always reaches a
// terminal state exactly once.
//
// ctx carries request-scoped values only. A local process, once started, is
// not killed when ctx is cancelled, and a submitted remote request is not
// aborted.
func (o *Orchestrator) Start(ctx context.Context, req Request) *Run {
	run := newRun(fmt.Sprintf("run-%d", o.seq.Add(1)), req)
	o.logger.Info("Run requested", "run", run.ID, "test", req.TestName, "mode", string(req.Mode))

	switch req.Mode {
	case ModeLocal:
		o.startLocal(run)
	case ModeRemote:
		o.startRemote(ctx, run)
	default:
		o.fail(run, "Cannot start run", fmt.Errorf("unknown mode %q", req.Mode), 0)
	}
	return run
}

// Execute starts a run and waits for it. If ctx ends first the run keeps
// going and Execute returns the context error.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (Result, error) {
	run := o.Start(ctx, req)
	select {
	case <-run.Done():
		return run.Wait(), nil
	case <-ctx.Done():
		return Result{RunID: run.ID, TestName: req.TestName, Mode: req.Mode}, ctx.Err()
	}
}

func (o *Orchestrator) transition(run *Run, state State) {
	run.mu.Lock()
	run.state = state
	run.states = append(run.states, state)
	run.mu.Unlock()

	o.logger.Debug("Run state changed", "run", run.ID, "state", string(state))
	o.events.Publish(notify.Event{Type: notify.EventStateChanged, RunID: run.ID, State: string(state)})
}

// fail reports err once through the sink, which also records it durably, and
// completes the run as failed.
func (o *Orchestrator) fail(run *Run, message string, err error, exitCode int) {
	o.sink.Failure(message, err)
	o.finish(run, StateFailed, Result{Status: StatusFailed, ExitCode: exitCode, Err: err})
}

func (o *Orchestrator) finish(run *Run, state State, res Result) {
	o.transition(run, state)

	run.mu.Lock()
	res.RunID = run.ID
	res.TestName = run.Request.TestName
	res.Mode = run.Request.Mode
	res.States = append([]State(nil), run.states...)
	res.LogLines = append([]string(nil), run.lines...)
	res.Duration = time.Since(run.started)
	run.result = res
	run.mu.Unlock()

	o.logger.Info("Run finished", "run", run.ID, "status", string(res.Status), "exit_code", res.ExitCode, "duration", res.Duration)
	o.events.Publish(notify.Event{Type: notify.EventRunCompleted, RunID: run.ID, State: string(state)})
	close(run.done)
}
