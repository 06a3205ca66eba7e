// Package jsonpath reads values out of JSON documents. Paths may be written
// either as simple JSONPath ("$.plans[*].name") or in gjson syntax
// ("plans.#.name").
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract extracts a value from a JSON string using a JSONPath expression
func Extract(json string, path string) (string, error) {
	result, err := lookup([]byte(json), path)
	if err != nil {
		return "", err
	}

	// Handle null values
	if result.Type == gjson.Null {
		return "null", nil
	}

	// Return the value as a string
	return result.String(), nil
}

// ExtractAll returns every string selected by path. An array result yields
// its non-empty elements; a scalar yields a single value.
func ExtractAll(json []byte, path string) ([]string, error) {
	result, err := lookup(json, path)
	if err != nil {
		return nil, err
	}

	values := []string{}
	if !result.IsArray() {
		return append(values, result.String()), nil
	}
	for _, v := range result.Array() {
		if s := v.String(); s != "" {
			values = append(values, s)
		}
	}
	return values, nil
}

func lookup(json []byte, path string) (gjson.Result, error) {
	// Handle empty JSON
	if len(json) == 0 {
		return gjson.Result{}, fmt.Errorf("empty JSON string")
	}
	if !gjson.ValidBytes(json) {
		return gjson.Result{}, fmt.Errorf("invalid JSON")
	}

	// Handle empty path
	if path == "" {
		return gjson.Result{}, fmt.Errorf("empty JSONPath expression")
	}

	result := gjson.GetBytes(json, ToGjson(path))
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("path not found: %s", path)
	}
	return result, nil
}

// ToGjson converts a JSONPath expression to gjson syntax. Paths that do not
// start with "$" are assumed to be gjson already and returned unchanged.
func ToGjson(path string) string {
	if !strings.HasPrefix(path, "$") {
		return path
	}

	// Remove $ prefix and the dot that follows it
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	// Handle bracket notation with quotes: ['name'] and ["name"]
	for _, q := range []string{"'", `"`} {
		path = strings.ReplaceAll(path, "["+q, ".")
		path = strings.ReplaceAll(path, q+"]", "")
	}

	// Wildcards select every element: [*] -> .#
	path = strings.ReplaceAll(path, "[*]", ".#")

	// Replace array notation [n] with .n
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")

	return strings.TrimPrefix(path, ".")
}
