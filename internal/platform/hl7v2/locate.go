package hl7v2

import "strings"

// FindNameField scans fields from start and returns the first non-empty field
// made only of ASCII letters and carets that contains at least one caret.
// It returns "" when no field matches. Fields are matched by content rather
// than position because senders vary the number of empty fields before the
// name.
func FindNameField(fields []string, start int) string {
	return findField(fields, start, isNameShaped)
}

// FindDateField scans fields from start and returns the first field that is
// exactly eight ASCII digits, or "" when no field matches.
func FindDateField(fields []string, start int) string {
	return findField(fields, start, isDateShaped)
}

func findField(fields []string, start int, match func(string) bool) string {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(fields); i++ {
		if fields[i] != "" && match(fields[i]) {
			return fields[i]
		}
	}
	return ""
}

func isNameShaped(s string) bool {
	if !strings.Contains(s, ComponentSeparator) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '^' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			continue
		}
		return false
	}
	return true
}

func isDateShaped(s string) bool {
	if len(s) != 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
