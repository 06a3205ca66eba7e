package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/campload/internal/catalog"
	"github.com/wesleyorama2/campload/internal/orchestrator"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatLocations(locations []catalog.Location) string
	FormatUnits(data UnitsData) string
	FormatNames(title string, names []string) string
	FormatFixture(data FixtureData) string
	FormatRunResult(res orchestrator.Result) string
}

// UnitsData is the campsite selection of one park.
type UnitsData struct {
	Location catalog.Location       `json:"park" yaml:"park"`
	Category string                 `json:"type" yaml:"type"`
	Count    int                    `json:"count" yaml:"count"`
	Units    []catalog.ResourceUnit `json:"sites" yaml:"sites"`
}

// FixtureData describes a written fixture.
type FixtureData struct {
	File      string `json:"file" yaml:"file"`
	Path      string `json:"path" yaml:"path"`
	Rows      int    `json:"rows" yaml:"rows"`
	Active    string `json:"active" yaml:"active"`
	Park      string `json:"park" yaml:"park"`
	Category  string `json:"type" yaml:"type"`
	CheckIn   string `json:"checkIn" yaml:"checkIn"`
	CheckOut  string `json:"checkOut" yaml:"checkOut"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// ListingData is a named list such as the test plans of a workspace.
type ListingData struct {
	Title string   `json:"title" yaml:"title"`
	Count int      `json:"count" yaml:"count"`
	Names []string `json:"names" yaml:"names"`
}

// RunData represents the structured data of a finished run
type RunData struct {
	RunID      string   `json:"runId" yaml:"runId"`
	Test       string   `json:"test" yaml:"test"`
	Mode       string   `json:"mode" yaml:"mode"`
	Status     string   `json:"status" yaml:"status"`
	ExitCode   int      `json:"exitCode" yaml:"exitCode"`
	StatusURL  string   `json:"statusUrl,omitempty" yaml:"statusUrl,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
	States     []string `json:"states" yaml:"states"`
	LogLines   []string `json:"logLines,omitempty" yaml:"logLines,omitempty"`
	DurationMs int64    `json:"durationMs" yaml:"durationMs"`
	Timestamp  string   `json:"timestamp" yaml:"timestamp"`
}

func newRunData(res orchestrator.Result, verbose bool) RunData {
	states := make([]string, len(res.States))
	for i, s := range res.States {
		states[i] = string(s)
	}
	data := RunData{
		RunID:      res.RunID,
		Test:       res.TestName,
		Mode:       string(res.Mode),
		Status:     string(res.Status),
		ExitCode:   res.ExitCode,
		StatusURL:  res.StatusURL,
		Error:      res.Error(),
		States:     states,
		DurationMs: res.Duration.Milliseconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	if verbose {
		data.LogLines = res.LogLines
	}
	return data
}

func newListingData(title string, names []string) ListingData {
	if names == nil {
		names = []string{}
	}
	return ListingData{Title: title, Count: len(names), Names: names}
}

func nonNilLocations(locations []catalog.Location) []catalog.Location {
	if locations == nil {
		return []catalog.Location{}
	}
	return locations
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(what string, v interface{}) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal %s: %s"}`, what, err)
	}
	return string(output)
}

// FormatLocations formats the park list as JSON
func (f *JSONFormatter) FormatLocations(locations []catalog.Location) string {
	return f.marshal("parks", nonNilLocations(locations))
}

// FormatUnits formats a campsite selection as JSON
func (f *JSONFormatter) FormatUnits(data UnitsData) string {
	if data.Units == nil {
		data.Units = []catalog.ResourceUnit{}
	}
	return f.marshal("sites", data)
}

// FormatNames formats a listing as JSON
func (f *JSONFormatter) FormatNames(title string, names []string) string {
	return f.marshal("listing", newListingData(title, names))
}

// FormatFixture formats a written fixture as JSON
func (f *JSONFormatter) FormatFixture(data FixtureData) string {
	return f.marshal("fixture", data)
}

// FormatRunResult formats a run result as JSON
func (f *JSONFormatter) FormatRunResult(res orchestrator.Result) string {
	return f.marshal("run result", newRunData(res, f.Verbose))
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(what string, v interface{}) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal %s: %s", what, err)
	}
	return "---\n" + string(output)
}

// FormatLocations formats the park list as YAML
func (f *YAMLFormatter) FormatLocations(locations []catalog.Location) string {
	return f.marshal("parks", nonNilLocations(locations))
}

// FormatUnits formats a campsite selection as YAML
func (f *YAMLFormatter) FormatUnits(data UnitsData) string {
	if data.Units == nil {
		data.Units = []catalog.ResourceUnit{}
	}
	return f.marshal("sites", data)
}

// FormatNames formats a listing as YAML
func (f *YAMLFormatter) FormatNames(title string, names []string) string {
	return f.marshal("listing", newListingData(title, names))
}

// FormatFixture formats a written fixture as YAML
func (f *YAMLFormatter) FormatFixture(data FixtureData) string {
	return f.marshal("fixture", data)
}

// FormatRunResult formats a run result as YAML
func (f *YAMLFormatter) FormatRunResult(res orchestrator.Result) string {
	return f.marshal("run result", newRunData(res, f.Verbose))
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
