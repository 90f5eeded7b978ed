package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// TitleCase trims and title-cases a free-text field (names, addresses,
// cities). "JOHN SMITH" and "john smith" both become "John Smith".
func TitleCase(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

// CollapseSpace trims a string and collapses internal whitespace runs
// to single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
