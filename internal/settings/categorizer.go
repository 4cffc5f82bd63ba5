package settings

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCategory groups keys that have no "_" separated prefix.
const DefaultCategory = "General"

const keySeparator = "_"

// Categorize derives the category of a key from its first "_" separated segment.
func Categorize(key string) string {
	segments := strings.Split(key, keySeparator)
	for len(segments) > 0 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}

	if len(segments) > 1 && segments[0] != "" {
		return Humanize(segments[0])
	}
	return DefaultCategory
}

// Humanize turns a key into a label: a trailing "_id" is dropped, underscores
// become spaces and only the first letter is upper case.
func Humanize(key string) string {
	s := strings.TrimLeft(key, keySeparator)
	s = strings.TrimSuffix(s, "_id")
	s = strings.ReplaceAll(s, keySeparator, " ")
	if s == "" {
		return ""
	}

	// Casers keep state between calls and are not shared.
	s = cases.Lower(language.Und).String(s)
	first, rest, found := strings.Cut(s, " ")
	first = cases.Title(language.Und).String(first)
	if !found {
		return first
	}
	return first + " " + rest
}
