package ioutils

import (
	"html"
	"strings"
)

// CleanDescription flattens a free-text description onto one line.
//
// Windows and Unix line breaks become spaces and runs of spaces collapse to
// one. Descriptions without line breaks are returned unchanged.
func CleanDescription(desc string) string {
	if !strings.Contains(desc, "\n") {
		return desc
	}

	desc = strings.ReplaceAll(desc, "\r\n", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")

	return strings.Join(strings.Fields(desc), " ")
}

// CleanSpecies removes leading whitespace; some species strings start with a
// newline.
func CleanSpecies(species string) string {
	return strings.TrimLeft(species, " \t\r\n")
}

// FormatUnit unescapes HTML entities in a metadata unit, e.g. "&#176;C" → "°C".
func FormatUnit(unit string) string {
	if unit == "" {
		return ""
	}

	return html.UnescapeString(unit)
}

// TSVField makes a value safe for a tab-separated cell by replacing tabs and
// line breaks with spaces.
func TSVField(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}

	return strings.NewReplacer("\r\n", " ", "\t", " ", "\r", " ", "\n", " ").Replace(s)
}
