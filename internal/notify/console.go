package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ConsoleConfig configures a ConsoleSink.
type ConsoleConfig struct {
	// Out receives subprocess output and informational messages. Defaults to stdout.
	Out io.Writer
	// Err receives failures. Defaults to stderr.
	Err io.Writer
	// Logger is the durable log. Every failure is recorded here.
	Logger *slog.Logger
	// Opener opens status pages. Defaults to SystemBrowser.
	Opener      Opener
	NoColor     bool
	ForceColors bool
}

// ConsoleSink writes to the terminal and mirrors everything to a durable log.
type ConsoleSink struct {
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
	opener Opener

	mu    sync.Mutex
	errC  *color.Color
	warnC *color.Color
	infoC *color.Color
}

// NewConsoleSink creates a ConsoleSink. Colors are used only when the output
// is a terminal, unless forced.
func NewConsoleSink(cfg ConsoleConfig) *ConsoleSink {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Opener == nil {
		cfg.Opener = SystemBrowser{}
	}

	s := &ConsoleSink{
		out:    cfg.Out,
		errOut: cfg.Err,
		logger: cfg.Logger,
		opener: cfg.Opener,
		errC:   color.New(color.FgRed, color.Bold),
		warnC:  color.New(color.FgYellow),
		infoC:  color.New(color.FgBlue),
	}

	useColors := !cfg.NoColor && (cfg.ForceColors || isTerminal(cfg.Out))
	for _, c := range []*color.Color{s.errC, s.warnC, s.infoC} {
		if useColors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Failure implements Sink.
func (s *ConsoleSink) Failure(message string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cause != nil {
		fmt.Fprintf(s.errOut, "%s %s: %v\n", s.errC.Sprint("✗"), s.errC.Sprint(message), cause)
		s.logger.Error(message, "error", cause)
		return
	}
	fmt.Fprintf(s.errOut, "%s %s\n", s.errC.Sprint("✗"), s.errC.Sprint(message))
	s.logger.Error(message)
}

// Log implements Sink.
func (s *ConsoleSink) Log(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(s.out, line)
	s.logger.Info("process output", "line", line)
}

// OpenStatusPage implements Sink. A browser that fails to open is logged as a
// warning only.
func (s *ConsoleSink) OpenStatusPage(url string) {
	s.Info("Opening status page: " + url)

	if err := s.opener.Open(url); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprintf(s.errOut, "%s could not open browser: %v\n", s.warnC.Sprint("⚠"), err)
		s.logger.Warn("could not open status page", "url", url, "error", err)
	}
}

// Info prints an informational message.
func (s *ConsoleSink) Info(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.out, "%s %s\n", s.infoC.Sprint("ℹ"), message)
	s.logger.Info(message)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
