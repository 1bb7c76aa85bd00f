package db

import "time"

// TimeFormat renders a timestamp the way every table stores them: RFC3339 in
// UTC. Zero times render as the empty string, which maps to NULL columns.
func TimeFormat(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// TimeParse is the inverse of TimeFormat. The empty string parses to the
// zero time.
func TimeParse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
