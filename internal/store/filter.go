package store

import (
	"strings"
	"time"

	"github.com/platevision/platevision-go/internal/model"
)

// Filter selects a time window for the record history.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterToday Filter = "today"
	FilterWeek  Filter = "week"
	FilterMonth Filter = "month"
)

// TimestampFromTime renders t in the canonical record timestamp form,
// RFC 3339 in UTC.
func TimestampFromTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NormalizeTimestamp rewrites an RFC 3339 timestamp into the canonical
// UTC form, so the same instant always yields the same string regardless
// of the offset it arrived with. Unparseable input is returned unchanged.
func NormalizeTimestamp(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return TimestampFromTime(t)
}

// FilterRecords narrows records to the given time window and plate number
// query. The week window starts on Sunday, the month window on the first
// of the month; both are evaluated in now's location.
func FilterRecords(records []model.PlateRecord, filter Filter, query string, now time.Time) []model.PlateRecord {
	var cutoff time.Time
	switch filter {
	case FilterToday:
		cutoff = startOfDay(now)
	case FilterWeek:
		cutoff = startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	case FilterMonth:
		cutoff = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		// FilterAll keeps everything.
	}

	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]model.PlateRecord, 0, len(records))
	for _, r := range records {
		if !cutoff.IsZero() {
			t, err := time.Parse(time.RFC3339, r.Timestamp)
			if err != nil || t.Before(cutoff) {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(r.PlateNumber), query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
