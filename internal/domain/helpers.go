package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TitleCase trims s, collapses runs of whitespace into one space and
// capitalises every token: first letter upper, the rest lower.
func TitleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = capitalize(f)
	}
	return strings.Join(fields, " ")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(word)
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(word[size:])
}

// UpperToken normalises enum-like input such as a condition code.
func UpperToken(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseBool accepts true, 1, yes and y (any case); everything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

func BoolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
