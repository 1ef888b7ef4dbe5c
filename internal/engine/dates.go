package engine

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate разбирает дату в ISO-8601; пустая или нераспознанная строка даёт false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsExpired: дата распознана и строго раньше now.
func IsExpired(date string, now time.Time) bool {
	t, ok := ParseDate(date)
	return ok && t.Before(now)
}

// IsExpiringWithinDays: дата распознана и до неё от 0 до days дней включительно.
func IsExpiringWithinDays(date string, days int, now time.Time) bool {
	t, ok := ParseDate(date)
	if !ok {
		return false
	}
	diff := t.Sub(now).Hours() / 24
	return diff >= 0 && diff <= float64(days)
}
