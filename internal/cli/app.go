package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/campload/internal/catalog"
	"github.com/wesleyorama2/campload/internal/config"
	"github.com/wesleyorama2/campload/internal/ctxlog"
	"github.com/wesleyorama2/campload/internal/fixture"
	"github.com/wesleyorama2/campload/internal/http"
	"github.com/wesleyorama2/campload/internal/notify"
	"github.com/wesleyorama2/campload/internal/orchestrator"
	"github.com/wesleyorama2/campload/internal/output"
	"github.com/wesleyorama2/campload/internal/workspace"
)

// LogFile is the durable log inside the logs directory.
const LogFile = "campload.log"

// app holds what every command needs once the configuration is loaded.
type app struct {
	opener notify.Opener

	root      string
	cfg       *config.Config
	layout    workspace.Layout
	logger    *slog.Logger
	logFile   io.Closer
	bus       *notify.Bus
	sink      *notify.ConsoleSink
	fixtures  *fixture.Manager
	formatter output.FormatProvider
	format    output.OutputFormat
	out       io.Writer
}

func (a *app) setup(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	workdir, _ := cmd.Flags().GetString("workdir")
	format, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	logLevel, _ := cmd.Flags().GetString("log-level")

	outputFormat, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, configPath, err := config.Resolve(configPath, workdir)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = strings.ToLower(logLevel)
	}

	a.root = workdir
	a.cfg = cfg
	a.layout = workspace.Layout{
		Tests:   a.path(cfg.Workspace.Tests),
		Data:    a.path(cfg.Workspace.Data),
		Results: a.path(cfg.Workspace.Results),
		Logs:    a.path(cfg.Workspace.Logs),
	}
	if err := a.layout.Ensure(); err != nil {
		return err
	}

	logFile, err := os.OpenFile(filepath.Join(a.layout.Logs, LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.logFile = logFile
	a.logger = ctxlog.New(cfg.Log.Level, cfg.Log.Format, logFile).With("command", cmd.Name())
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), a.logger))

	a.bus = notify.NewBus()
	a.bus.Subscribe(func(e notify.Event) {
		a.logger.Debug("Event", "type", string(e.Type), "run", e.RunID, "state", e.State, "file", e.File)
	})

	// Structured output owns stdout, so process output goes to stderr.
	a.out = cmd.OutOrStdout()
	sinkOut := a.out
	if outputFormat != output.FormatText {
		sinkOut = cmd.ErrOrStderr()
	}
	a.sink = notify.NewConsoleSink(notify.ConsoleConfig{
		Out:     sinkOut,
		Err:     cmd.ErrOrStderr(),
		Logger:  a.logger,
		Opener:  a.opener,
		NoColor: noColor,
	})

	a.fixtures = fixture.NewManager(a.layout.Data,
		fixture.WithActiveFile(cfg.Fixture.ActiveFile),
		fixture.WithPublisher(a.bus))
	a.format = outputFormat
	a.formatter = output.GetFormatter(outputFormat, verbose, noColor)

	a.logger.Info("Starting", "version", version, "config", configPath, "workdir", workdir)
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

// path resolves p against the workspace root unless it is absolute.
func (a *app) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.root, p)
}

func (a *app) print(s string) {
	fmt.Fprint(a.out, s)
}

func (a *app) catalog(ctx context.Context) (*catalog.Store, error) {
	logger := ctxlog.FromContext(ctx)
	parks, sites := a.path(a.cfg.Reference.Parks), a.path(a.cfg.Reference.Campsites)
	store, err := catalog.LoadFiles(parks, sites)
	if err != nil {
		logger.Error("Cannot load reference data", "error", err)
		return nil, err
	}
	if n := store.Dropped(); n > 0 {
		logger.Warn("Dropped campsites of unknown parks", "count", n)
	}
	logger.Debug("Reference data loaded", "parks", len(store.Locations()))
	return store, nil
}

func (a *app) client() *http.Client {
	return http.NewClient(
		http.WithBaseURL(a.cfg.Server.BaseURL),
		http.WithTimeout(a.cfg.Server.Timeout.Std()),
		http.WithHeader("User-Agent", "campload/"+version),
	)
}

func (a *app) orchestrator(ctx context.Context) *orchestrator.Orchestrator {
	options := []orchestrator.Option{
		orchestrator.WithPublisher(a.bus),
		orchestrator.WithLogger(ctxlog.FromContext(ctx)),
		orchestrator.WithFixtures(a.fixtures),
		orchestrator.WithLocal(orchestrator.LocalConfig{
			JMeterHome: a.cfg.JMeter.Home,
			Executable: a.cfg.JMeter.Executable,
			TestsDir:   a.layout.Tests,
			ResultsDir: a.layout.Results,
		}),
	}
	if a.cfg.Server.BaseURL != "" {
		options = append(options, orchestrator.WithRemote(a.client(), a.cfg.Server.AccountID))
	}
	return orchestrator.New(a.sink, options...)
}

func (a *app) lister(ctx context.Context) *orchestrator.Lister {
	return orchestrator.NewLister(a.client(), a.cfg.Server.AccountID, a.sink,
		orchestrator.WithListingPath(a.cfg.Remote.ListingJSONPath),
		orchestrator.WithListingLogger(ctxlog.FromContext(ctx)))
}

// confirm asks a yes/no question on the command's input. Anything but an
// explicit yes declines.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
