package orchestrator

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/campload/internal/fixture"
	"github.com/wesleyorama2/campload/internal/notify"
)

const fakeJMeter = `#!/bin/sh
echo "jmeter $1 $2"
echo "plan $(basename "$3")"
echo "warning from stderr" 1>&2
case "$3" in
  *Broken.jmx) exit 3 ;;
esac
echo "results $(basename "$5")"
`

type workspace struct {
	home    string
	tests   string
	data    string
	results string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake jmeter is a shell script")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}

	root := t.TempDir()
	ws := workspace{
		home:    filepath.Join(root, "jmeter", "bin"),
		tests:   filepath.Join(root, "Tests"),
		data:    filepath.Join(root, "Data"),
		results: filepath.Join(root, "Results"),
	}
	for _, dir := range []string{ws.home, ws.tests, ws.data} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(ws.home, "jmeter"), []byte(fakeJMeter), 0o755))
	return ws
}

func (ws workspace) local() LocalConfig {
	return LocalConfig{JMeterHome: ws.home, TestsDir: ws.tests, ResultsDir: ws.results}
}

type eventLog struct {
	mu     sync.Mutex
	events []notify.Event
}

func (l *eventLog) Publish(e notify.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) ofType(t notify.EventType) []notify.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []notify.Event
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func waitResult(t *testing.T, run *Run) Result {
	t.Helper()
	select {
	case <-run.Done():
	case <-time.After(10 * time.Second):
		t.Fatalf("run %s did not finish", run.ID)
	}
	return run.Wait()
}

func TestLocalRun_Succeeds(t *testing.T) {
	ws := newWorkspace(t)
	sink := &notify.Recorder{}
	events := &eventLog{}
	o := New(sink, WithLocal(ws.local()), WithPublisher(events))

	run := o.Start(context.Background(), Request{TestName: "Booking.jmx", Mode: ModeLocal})
	res := waitResult(t, run)

	require.NoError(t, res.Err)
	assert.Equal(t, StatusSucceeded, res.Status)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, []string{
		"jmeter -n -t",
		"plan Booking.jmx",
		"warning from stderr",
		"results Booking.jtl",
	}, res.LogLines)
	assert.Equal(t, res.LogLines, sink.Lines())
	assert.Empty(t, sink.Failures())
	assert.Equal(t, []State{StateIdle, StatePreparing, StateRunning, StateSucceeded}, res.States)
	assert.Equal(t, StateSucceeded, run.State())

	assert.DirExists(t, ws.results)
	assert.Len(t, events.ofType(notify.EventLogLine), 4)
	assert.Len(t, events.ofType(notify.EventStateChanged), 3)
	completed := events.ofType(notify.EventRunCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, run.ID, completed[0].RunID)
}

func TestLocalRun_NonZeroExit(t *testing.T) {
	ws := newWorkspace(t)
	sink := &notify.Recorder{}
	o := New(sink, WithLocal(ws.local()))

	res, err := o.Execute(context.Background(), Request{TestName: "Broken.jmx", Mode: ModeLocal})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 3, res.ExitCode)
	var exitErr *NonZeroExitError
	require.ErrorAs(t, res.Err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)

	require.Len(t, sink.Failures(), 1)
	assert.Contains(t, sink.Failures()[0].Message, "Broken.jmx")
	assert.Equal(t, []State{StateIdle, StatePreparing, StateRunning, StateFailed}, res.States)
	// Output up to the failure is still delivered.
	assert.Len(t, res.LogLines, 3)
}

func TestLocalRun_MissingExecutable(t *testing.T) {
	ws := newWorkspace(t)
	cfg := ws.local()
	cfg.Executable = "not-jmeter"
	sink := &notify.Recorder{}
	o := New(sink, WithLocal(cfg))

	res := waitResult(t, o.Start(context.Background(), Request{TestName: "Booking.jmx", Mode: ModeLocal}))

	var exitErr *NonZeroExitError
	require.ErrorAs(t, res.Err, &exitErr)
	assert.Equal(t, 127, exitErr.Code)
	assert.Len(t, sink.Failures(), 1)
}

func TestLocalRun_LaunchError(t *testing.T) {
	ws := newWorkspace(t)
	sink := &notify.Recorder{}
	o := New(sink, WithLocal(ws.local()))
	o.command = func(string, ...string) *exec.Cmd {
		return exec.Command(filepath.Join(ws.home, "no-such-shell"))
	}

	run := o.Start(context.Background(), Request{TestName: "Booking.jmx", Mode: ModeLocal})
	res := waitResult(t, run)

	var launchErr *ProcessLaunchError
	require.ErrorAs(t, res.Err, &launchErr)
	assert.Equal(t, "start", launchErr.Op)
	assert.True(t, errors.Is(res.Err, os.ErrNotExist))
	assert.Equal(t, StatusFailed, res.Status)
	assert.Len(t, sink.Failures(), 1)
	assert.Equal(t, []State{StateIdle, StatePreparing, StateRunning, StateFailed}, res.States)
}

func TestLocalRun_ActivatesFixture(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(ws.data, "Booking.csv"), []byte("booking rows\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws.data, fixture.DefaultActiveFile), []byte("old rows\n"), 0o644))

	events := &eventLog{}
	fixtures := fixture.NewManager(ws.data, fixture.WithPublisher(events))
	sink := &notify.Recorder{}
	o := New(sink, WithLocal(ws.local()), WithFixtures(fixtures), WithPublisher(events))

	res := waitResult(t, o.Start(context.Background(), Request{TestName: "Booking.jmx", Mode: ModeLocal, FixtureFile: "Booking.csv"}))
	require.NoError(t, res.Err)

	data, err := os.ReadFile(fixtures.ActivePath())
	require.NoError(t, err)
	assert.Equal(t, "booking rows\n", string(data))
	assert.Len(t, events.ofType(notify.EventFixtureSetChanged), 1)
}

func TestLocalRun_FixtureCopyFails(t *testing.T) {
	ws := newWorkspace(t)
	fixtures := fixture.NewManager(ws.data)
	sink := &notify.Recorder{}
	o := New(sink, WithLocal(ws.local()), WithFixtures(fixtures))

	res := waitResult(t, o.Start(context.Background(), Request{TestName: "Booking.jmx", Mode: ModeLocal, FixtureFile: "missing.csv"}))

	var ioErr *fixture.IOError
	require.ErrorAs(t, res.Err, &ioErr)
	assert.Equal(t, []State{StateIdle, StatePreparing, StateFailed}, res.States)
	assert.Empty(t, res.LogLines)
	assert.Len(t, sink.Failures(), 1)
	assert.NoDirExists(t, ws.results)
}

func TestStart_UnknownMode(t *testing.T) {
	sink := &notify.Recorder{}
	o := New(sink)

	res := waitResult(t, o.Start(context.Background(), Request{TestName: "Booking.jmx", Mode: "cloud"}))
	assert.Equal(t, StatusFailed, res.Status)
	assert.Len(t, sink.Failures(), 1)
}

func TestCommandLine(t *testing.T) {
	cfg := LocalConfig{JMeterHome: "/opt/jmeter/bin", Executable: "jmeter", TestsDir: "Tests", ResultsDir: "My Results", GOOS: "linux"}
	assert.Equal(t, `/opt/jmeter/bin/jmeter -n -t Tests/Booking.jmx -l 'My Results/Booking.jtl'`, cfg.CommandLine("Booking.jmx"))
}

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		goos string
		in   string
		want string
	}{
		{goos: "linux", in: "Tests/Booking.jmx", want: "Tests/Booking.jmx"},
		{goos: "linux", in: "My Plan.jmx", want: `'My Plan.jmx'`},
		{goos: "linux", in: "$HOME.jmx", want: `'$HOME.jmx'`},
		{goos: "linux", in: "`id`.jmx", want: "'`id`.jmx'"},
		{goos: "linux", in: `say "hi".jmx`, want: `'say "hi".jmx'`},
		{goos: "linux", in: "it's.jmx", want: `'it'\''s.jmx'`},
		{goos: "linux", in: "", want: "''"},
		{goos: "windows", in: `C:\jmeter\bin\jmeter`, want: `C:\jmeter\bin\jmeter`},
		{goos: "windows", in: `C:\Program Files\jmeter`, want: `"C:\Program Files\jmeter"`},
	}

	for _, tt := range tests {
		t.Run(tt.goos+" "+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteArg(tt.goos, tt.in))
		})
	}
}

func TestLocalRun_ShellMetacharactersInName(t *testing.T) {
	ws := newWorkspace(t)
	sink := &notify.Recorder{}
	o := New(sink, WithLocal(ws.local()))

	res := waitResult(t, o.Start(context.Background(), Request{TestName: "$(echo pwned) 'x'.jmx", Mode: ModeLocal}))

	require.NoError(t, res.Err)
	assert.Contains(t, res.LogLines, "plan $(echo pwned) 'x'.jmx")
	assert.NotContains(t, res.LogLines, "plan pwned 'x'.jmx")
}

func TestShell(t *testing.T) {
	name, args := shell("windows", "jmeter -n")
	assert.Equal(t, "cmd.exe", name)
	assert.Equal(t, []string{"/c", "jmeter -n"}, args)

	name, args = shell("linux", "jmeter -n")
	assert.Equal(t, "bash", name)
	assert.Equal(t, []string{"-c", "jmeter -n"}, args)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Remote ")
	require.NoError(t, err)
	assert.Equal(t, ModeRemote, m)

	_, err = ParseMode("cloud")
	assert.Error(t, err)
}
