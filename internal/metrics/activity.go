package metrics

import (
	"time"

	"github.com/Zachkp/portfolio/internal/github"
)

// localDateLayout keys distinct calendar days.
const localDateLayout = "2006-01-02"

// CountRecentPushes counts push events created after now-window.
func CountRecentPushes(events []github.Event, now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	count := 0
	for i := range events {
		if events[i].Type == github.PushEvent && events[i].CreatedAt.After(cutoff) {
			count++
		}
	}
	return count
}

// CountActiveDays returns the number of distinct calendar dates, in loc, among
// the first limit events. The feed is newest first, so these are the most
// recent ones.
func CountActiveDays(events []github.Event, limit int, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	if limit >= 0 && limit < len(events) {
		events = events[:limit]
	}
	days := make(map[string]struct{}, len(events))
	for i := range events {
		days[events[i].CreatedAt.In(loc).Format(localDateLayout)] = struct{}{}
	}
	return len(days)
}
