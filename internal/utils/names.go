package utils

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ArgName maps a Go field name to the argument name callers use.
// Example: "Request" -> "request", "URL" -> "uRL".
func ArgName(field string) string {
	if field == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError && size <= 1 {
		return field
	}
	lower := unicode.ToLower(r)
	if lower == r {
		return field
	}
	return string(lower) + field[size:]
}

// JoinSorted sorts names in place and joins them with sep.
func JoinSorted(names []string, sep string) string {
	sort.Strings(names)
	return strings.Join(names, sep)
}

// SplitNames is the inverse of JoinSorted; an empty string yields nil.
func SplitNames(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}
