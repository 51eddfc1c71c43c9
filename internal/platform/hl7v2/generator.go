package hl7v2

import (
	"strings"
)

// BuildSegment joins a tag and its fields into one segment. Trailing empty
// fields are dropped so the segment has no dangling separators.
func BuildSegment(tag string, fields ...string) string {
	last := len(fields)
	for last > 0 && fields[last-1] == "" {
		last--
	}
	return strings.Join(append([]string{tag}, fields[:last]...), FieldSeparator)
}

// BuildComponents joins components with the component separator, dropping
// trailing empty components.
func BuildComponents(components ...string) string {
	last := len(components)
	for last > 0 && components[last-1] == "" {
		last--
	}
	return strings.Join(components[:last], ComponentSeparator)
}

// BuildMessage joins segments into a message terminated by a segment
// separator.
func BuildMessage(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, SegmentSeparator) + SegmentSeparator
}
