package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Title     *color.Color
	ID        *color.Color
	Name      *color.Color
	Category  *color.Color
	Count     *color.Color
	URL       *color.Color
	Success   *color.Color
	Warn      *color.Color
	Error     *color.Color
	Muted     *color.Color
	Highlight *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Title:     color.New(color.FgBlue, color.Bold),
		ID:        color.New(color.FgYellow),
		Name:      color.New(color.FgWhite),
		Category:  color.New(color.FgMagenta),
		Count:     color.New(color.FgCyan, color.Bold),
		URL:       color.New(color.FgCyan),
		Success:   color.New(color.FgGreen, color.Bold),
		Warn:      color.New(color.FgYellow, color.Bold),
		Error:     color.New(color.FgRed, color.Bold),
		Muted:     color.New(color.FgHiBlack),
		Highlight: color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range []*color.Color{
		scheme.Title, scheme.ID, scheme.Name, scheme.Category, scheme.Count, scheme.URL,
		scheme.Success, scheme.Warn, scheme.Error, scheme.Muted, scheme.Highlight,
	} {
		c.DisableColor()
	}
	return scheme
}

// Scheme returns the scheme matching noColor.
func Scheme(noColor bool) *ColorScheme {
	if noColor {
		return NoColorScheme()
	}
	return DefaultColorScheme()
}

// SuccessIcon returns a checkmark symbol with appropriate color
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

// ErrorIcon returns an X symbol with appropriate color
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

// InfoIcon returns an info symbol with appropriate color
func InfoIcon(noColor bool) string {
	if noColor {
		return "ℹ"
	}
	return color.New(color.FgBlue).Sprint("ℹ")
}

// WarningIcon returns a warning symbol with appropriate color
func WarningIcon(noColor bool) string {
	if noColor {
		return "⚠"
	}
	return color.New(color.FgYellow).Sprint("⚠")
}
