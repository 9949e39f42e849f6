package domain

import "time"

// DateLayout is the civil date format used across the store and providers.
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
