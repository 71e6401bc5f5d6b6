package utils

import (
	"strings"
)

// CleanToValidUTF8 strips invalid UTF-8 sequences from s.
func CleanToValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}

// SafeText collapses runs of whitespace into single spaces and trims the result.
func SafeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContainsString reports whether list contains s.
func ContainsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
