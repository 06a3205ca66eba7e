package orchestrator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/wesleyorama2/campload/internal/fixture"
	"github.com/wesleyorama2/campload/internal/notify"
)

const maxLineLength = 1024 * 1024

// ResultName returns the results file name for a test plan.
func ResultName(testName string) string {
	return strings.TrimSuffix(testName, filepath.Ext(testName)) + ".jtl"
}

// CommandLine returns the shell command that runs testName in non-GUI mode.
// Arguments are quoted for the shell that GOOS selects.
func (c LocalConfig) CommandLine(testName string) string {
	goos := c.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	return strings.Join([]string{
		quoteArg(goos, filepath.Join(c.JMeterHome, c.Executable)),
		"-n",
		"-t", quoteArg(goos, filepath.Join(c.TestsDir, testName)),
		"-l", quoteArg(goos, filepath.Join(c.ResultsDir, ResultName(testName))),
	}, " ")
}

// shell returns the platform shell invocation for command.
func shell(goos, command string) (string, []string) {
	if goos == "windows" {
		return "cmd.exe", []string{"/c", command}
	}
	return "bash", []string{"-c", command}
}

// quoteArg quotes s as one word. bash gets single quotes, which suppress every
// expansion; cmd.exe gets double quotes around arguments with blanks.
func quoteArg(goos, s string) string {
	if goos == "windows" {
		if strings.ContainsAny(s, " \t") {
			return `"` + s + `"`
		}
		return s
	}
	if s != "" && strings.Trim(s, shellSafe) == "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

const shellSafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-+=.,:/@%"

func (o *Orchestrator) startLocal(run *Run) {
	req := run.Request
	o.transition(run, StatePreparing)

	if req.FixtureFile != "" {
		if o.fixtures == nil {
			o.fail(run, "Cannot prepare fixture", &fixture.IOError{Op: "activate", Path: req.FixtureFile, Err: errors.New("no fixture directory configured")}, 0)
			return
		}
		if req.FixtureFile != o.fixtures.ActiveName() {
			if err := o.fixtures.Activate(req.FixtureFile); err != nil {
				o.fail(run, "Cannot prepare fixture", err, 0)
				return
			}
		}
	}

	if o.local.ResultsDir != "" {
		if err := os.MkdirAll(o.local.ResultsDir, 0o755); err != nil {
			o.fail(run, "Cannot prepare results directory", &fixture.IOError{Op: "create", Path: o.local.ResultsDir, Err: err}, 0)
			return
		}
	}

	commandLine := o.local.CommandLine(req.TestName)
	name, args := shell(o.local.GOOS, commandLine)
	o.logger.Info("Running command", "run", run.ID, "command", commandLine)

	cmd := o.command(name, args...)
	pipeReader, pipeWriter := io.Pipe()
	cmd.Stdout = pipeWriter
	cmd.Stderr = pipeWriter

	o.transition(run, StateRunning)
	if err := cmd.Start(); err != nil {
		_ = pipeWriter.Close()
		_ = pipeReader.Close()
		o.fail(run, "Cannot start JMeter", &ProcessLaunchError{Op: "start", Command: commandLine, Err: err}, 0)
		return
	}

	go o.superviseLocal(run, cmd, commandLine, pipeReader, pipeWriter)
}

// superviseLocal forwards process output line by line and completes the run
// when the process exits.
func (o *Orchestrator) superviseLocal(run *Run, cmd *exec.Cmd, commandLine string, pipeReader *io.PipeReader, pipeWriter *io.PipeWriter) {
	var readErr error
	var readWG sync.WaitGroup
	readWG.Add(1)
	go func() {
		defer readWG.Done()
		scanner := bufio.NewScanner(pipeReader)
		scanner.Buffer(make([]byte, 0, 1024), maxLineLength)
		for scanner.Scan() {
			line := scanner.Text()
			run.addLine(line)
			o.sink.Log(line)
			o.events.Publish(notify.Event{Type: notify.EventLogLine, RunID: run.ID, Line: line})
		}
		if err := scanner.Err(); err != nil {
			readErr = err
			// Keep the pipe flowing so the child can exit.
			_, _ = io.Copy(io.Discard, pipeReader)
		}
	}()

	waitErr := cmd.Wait()
	_ = pipeWriter.Close()
	readWG.Wait()
	_ = pipeReader.Close()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && exitErr.ExitCode() > 0 {
			code := exitErr.ExitCode()
			o.fail(run, fmt.Sprintf("Test %s failed", run.Request.TestName), &NonZeroExitError{Code: code}, code)
			return
		}
		o.fail(run, "JMeter did not run to completion", &ProcessLaunchError{Op: "wait for", Command: commandLine, Err: waitErr}, -1)
		return
	}
	if readErr != nil {
		o.fail(run, "Cannot read JMeter output", &ProcessLaunchError{Op: "read output of", Command: commandLine, Err: readErr}, 0)
		return
	}

	o.finish(run, StateSucceeded, Result{Status: StatusSucceeded})
}
