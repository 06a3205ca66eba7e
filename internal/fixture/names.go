package fixture

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// Extension of fixture files.
	Extension = ".csv"
	// TestExtension of JMeter test plans.
	TestExtension = ".jmx"
)

// NameForTest derives the fixture file name from a test plan name:
// "Booking.jmx" becomes "Booking.csv".
func NameForTest(testName string) (string, error) {
	base := testName
	if strings.EqualFold(filepath.Ext(base), TestExtension) {
		base = base[:len(base)-len(TestExtension)]
	}
	return validName(base + Extension)
}

// NameFromInput normalizes an operator-supplied fixture name, appending the
// extension when it is missing.
func NameFromInput(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(strings.ToLower(name), Extension) {
		name += Extension
	}
	return validName(name)
}

func validName(name string) (string, error) {
	stem := strings.TrimSuffix(name, Extension)
	if strings.TrimSpace(stem) == "" {
		return "", fmt.Errorf("fixture name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid fixture name %q", name)
	}
	return name, nil
}
