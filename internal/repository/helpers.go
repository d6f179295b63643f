package repository

import (
	"time"
)

// timeLayout is how timestamps are stored. RFC3339Nano keeps insertion order
// when rows are sorted by created_at.
const timeLayout = time.RFC3339Nano

// nowUTC returns the current UTC time formatted for storage.
func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}

// formatTime formats t for storage, substituting now for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return nowUTC()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
