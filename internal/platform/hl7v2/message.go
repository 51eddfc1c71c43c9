package hl7v2

import (
	"strings"
)

const (
	// SegmentSeparator separates segments within a message.
	SegmentSeparator = "\n"

	// FieldSeparator separates fields within a segment.
	FieldSeparator = "|"

	// ComponentSeparator separates components within a field.
	ComponentSeparator = "^"
)

// SplitSegments splits a message into its segment lines. A trailing carriage
// return on a line is part of the line boundary (CRLF input) and is dropped.
// Empty lines are preserved so that callers see every position.
func SplitSegments(message string) []string {
	lines := strings.Split(message, SegmentSeparator)
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// SplitFields splits a segment into its pipe-delimited fields. fields[0] is
// the segment tag. A segment with no delimiter yields a single-element slice.
func SplitFields(segment string) []string {
	return strings.Split(segment, FieldSeparator)
}

// SplitComponents splits a field into its caret-delimited components.
func SplitComponents(field string) []string {
	return strings.Split(field, ComponentSeparator)
}

// FieldAt returns fields[index], or "" when index is out of range.
func FieldAt(fields []string, index int) string {
	if index < 0 || index >= len(fields) {
		return ""
	}
	return fields[index]
}

// ComponentAt returns components[index], or "" when index is out of range.
func ComponentAt(components []string, index int) string {
	return FieldAt(components, index)
}

// Tag returns the segment tag (the first field) of a segment line.
func Tag(segment string) string {
	if i := strings.Index(segment, FieldSeparator); i >= 0 {
		return segment[:i]
	}
	return segment
}

// SplitMessages splits a batch of messages on blank-line boundaries.
// Chunks that contain only whitespace are dropped.
func SplitMessages(batch string) []string {
	batch = strings.ReplaceAll(batch, "\r\n", "\n")

	var messages []string
	for _, chunk := range strings.Split(batch, "\n\n") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		messages = append(messages, chunk)
	}
	return messages
}
