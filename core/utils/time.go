package utils

import (
	"time"

	"event-checkin/core/constants"
)

// FormatTimestamp renders t in loc using the fixed-width sortable layout.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(constants.TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(constants.TimestampLayout, s, loc)
}
