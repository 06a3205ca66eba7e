package fixture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wesleyorama2/campload/internal/notify"
)

// DefaultActiveFile is the fixture path the JMeter plans are hard-wired to read.
const DefaultActiveFile = "campsites.csv"

// ErrEmptySelection is returned when asked to save a fixture with no rows.
var ErrEmptySelection = errors.New("selection matches no campsite nights")

// IOError reports a fixture file that could not be written or copied.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fixture %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Manager owns the fixture directory and the single active fixture file.
// Replacements of the active file are serialized and atomic, so a reader
// never sees a partially written fixture.
type Manager struct {
	dir    string
	active string
	events notify.Publisher

	mu sync.Mutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithActiveFile overrides the name of the active fixture.
func WithActiveFile(name string) ManagerOption {
	return func(m *Manager) {
		if name != "" {
			m.active = name
		}
	}
}

// WithPublisher sets where fixture-set-changed events go.
func WithPublisher(p notify.Publisher) ManagerOption {
	return func(m *Manager) {
		if p != nil {
			m.events = p
		}
	}
}

// NewManager creates a Manager for the fixture directory dir.
func NewManager(dir string, options ...ManagerOption) *Manager {
	m := &Manager{
		dir:    dir,
		active: DefaultActiveFile,
		events: notify.Discard,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Dir returns the fixture directory.
func (m *Manager) Dir() string {
	return m.dir
}

// ActiveName returns the file name of the active fixture.
func (m *Manager) ActiveName() string {
	return m.active
}

// ActivePath returns the path of the active fixture.
func (m *Manager) ActivePath() string {
	return filepath.Join(m.dir, m.active)
}

// Save writes rows to name in the fixture directory and makes it the active
// fixture. On failure no partially written file is left behind and the active
// fixture is unchanged.
func (m *Manager) Save(name string, rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptySelection
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(m.dir, name)
	err := writeAtomic(path, func(w io.Writer) error {
		return WriteCSV(w, rows)
	})
	if err != nil {
		return "", &IOError{Op: "write", Path: path, Err: err}
	}
	m.events.Publish(notify.Event{Type: notify.EventFixtureSetChanged, File: name})

	if err := m.activateLocked(name); err != nil {
		return path, err
	}
	return path, nil
}

// Activate copies the named fixture over the active fixture, replacing its
// contents. Activating the active fixture itself is a no-op.
func (m *Manager) Activate(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activateLocked(name)
}

func (m *Manager) activateLocked(name string) error {
	if name == m.active {
		return nil
	}

	src := filepath.Join(m.dir, name)
	in, err := os.Open(src)
	if err != nil {
		return &IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	dst := m.ActivePath()
	err = writeAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return &IOError{Op: "copy", Path: dst, Err: err}
	}

	m.events.Publish(notify.Event{Type: notify.EventFixtureSetChanged, File: m.active})
	return nil
}

// List returns the fixture files in the directory, sorted by name.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, &IOError{Op: "list", Path: m.dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// writeAtomic writes to a temporary file next to path and renames it into place.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
