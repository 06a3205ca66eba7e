package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Campsite type codes as they appear in the campsites table.
const (
	CategoryRV      = "0"
	CategoryLodging = "1"
	CategoryTent    = "2"
	CategoryStorage = "3"
)

// Category pairs a type code with its display label.
type Category struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

var categories = []Category{
	{Code: CategoryRV, Label: "RV"},
	{Code: CategoryLodging, Label: "Lodging"},
	{Code: CategoryTent, Label: "Tent"},
	{Code: CategoryStorage, Label: "Storage"},
}

// Categories returns the known campsite types in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsAll reports whether a category filter selects every campsite. Matching
// ignores case and surrounding space; the empty string and the legacy "-1"
// code are accepted as aliases.
func IsAll(filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	return filter == AllCategories || filter == "" || filter == "-1"
}

// Label returns the display label for a type code, or the code itself when it
// is not one of the known types.
func Label(code string) string {
	for _, c := range categories {
		if c.Code == code {
			return c.Label
		}
	}
	return code
}

// ParseFilter turns an operator-supplied category (a label such as "tent", a
// code such as "2", or "all") into a filter accepted by UnitsFor.
func ParseFilter(s string) (string, error) {
	s = strings.TrimSpace(s)
	if IsAll(s) {
		return AllCategories, nil
	}
	for _, c := range categories {
		if s == c.Code || strings.EqualFold(s, c.Label) {
			return c.Code, nil
		}
	}
	if _, err := strconv.Atoi(s); err == nil {
		return s, nil
	}
	return "", fmt.Errorf("unknown campsite type %q (want all, rv, lodging, tent, storage or a numeric code)", s)
}
