// Package normalize cleans raw spreadsheet cells into canonical names and
// category labels.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// placeholders are cell values spreadsheet exports write for missing data.
var placeholders = map[string]struct{}{
	"nan":     {},
	"nan nan": {},
	"none":    {},
	"null":    {},
}

// Name trims a raw cell into a person name. An empty result means the cell
// holds no usable name.
func Name(raw string) string {
	s := strings.TrimSpace(norm.NFC.String(raw))
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// IsPlaceholder reports whether a cleaned name is empty or a missing-value
// marker.
func IsPlaceholder(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	_, ok := placeholders[s]
	return ok
}

// FullName joins a given and family name with a single space.
func FullName(given, family string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(given+" "+family), " "))
}

// SplitFullName splits a combined name cell: the last token is the family
// name, everything before it the given name.
func SplitFullName(full string) (given, family string) {
	tokens := strings.Fields(full)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return "", tokens[0]
	default:
		return strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1]
	}
}
