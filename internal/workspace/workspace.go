// Package workspace manages the directory layout the load tests live in.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Default directory names, relative to the workspace root.
const (
	DefaultTestsDir   = "Tests"
	DefaultDataDir    = "Data"
	DefaultResultsDir = "Results"
	DefaultLogsDir    = "Logs"
)

// TestExtension is the file extension of JMeter test plans.
const TestExtension = ".jmx"

// Layout locates the workspace directories.
type Layout struct {
	Tests   string
	Data    string
	Results string
	Logs    string
}

// DefaultLayout returns the standard layout under root.
func DefaultLayout(root string) Layout {
	return Layout{
		Tests:   filepath.Join(root, DefaultTestsDir),
		Data:    filepath.Join(root, DefaultDataDir),
		Results: filepath.Join(root, DefaultResultsDir),
		Logs:    filepath.Join(root, DefaultLogsDir),
	}
}

// Dirs returns every directory of the layout that is set.
func (l Layout) Dirs() []string {
	var dirs []string
	for _, d := range []string{l.Tests, l.Data, l.Results, l.Logs} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Ensure creates any missing workspace directory.
func (l Layout) Ensure() error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create workspace directory %s: %w", dir, err)
		}
	}
	return nil
}

// TestDefinitions returns the test plans in the tests directory, sorted by
// name. The extension match is case-insensitive.
func (l Layout) TestDefinitions() ([]string, error) {
	entries, err := os.ReadDir(l.Tests)
	if err != nil {
		return nil, fmt.Errorf("failed to list test plans: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), TestExtension) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// HasTest reports whether name is a test plan in the tests directory.
func (l Layout) HasTest(name string) bool {
	info, err := os.Stat(filepath.Join(l.Tests, name))
	return err == nil && !info.IsDir()
}
