package analytics

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary is the aggregate the live metrics widget displays.
type Summary struct {
	PageViews              int64   `json:"page_views"`
	Visitors               int64   `json:"visitors"`
	SessionsToday          int64   `json:"sessions_today"`
	AverageSessionDuration float64 `json:"average_session_duration"`
}

// ActionCount is the number of recorded events for one action and label.
type ActionCount struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

// RecentVisit is a visit as shown in the admin area.
type RecentVisit struct {
	HashedIP  string `json:"hashed_ip"`
	UserAgent string `json:"user_agent"`
	Path      string `json:"path"`
	VisitedAt string `json:"visited_at"`
}

// Stats is the admin dashboard payload.
type Stats struct {
	Summary
	VisitorsThisWeek int64         `json:"visitors_this_week"`
	TotalEvents      int64         `json:"total_events"`
	TopEvents        []ActionCount `json:"top_events"`
	RecentVisitors   []RecentVisit `json:"recent_visitors"`
}

// Reporter computes summaries from the visitors and analytics_events tables.
type Reporter struct {
	db *sql.DB
}

// NewReporter creates a Reporter over db.
func NewReporter(db *sql.DB) *Reporter {
	return &Reporter{db: db}
}

// Summary returns page views, unique visitors, today's sessions and the
// average session length in seconds.
func (r *Reporter) Summary(ctx context.Context) (Summary, error) {
	var s Summary

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT hashed_ip)
		FROM visitors
	`).Scan(&s.PageViews, &s.Visitors)
	if err != nil {
		return Summary{}, fmt.Errorf("count visits: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT session_id)
		FROM visitors
		WHERE session_id <> '' AND DATE(visited_at) = DATE('now')
	`).Scan(&s.SessionsToday)
	if err != nil {
		return Summary{}, fmt.Errorf("count sessions today: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(duration), 0.0) FROM (
			SELECT (julianday(MAX(visited_at)) - julianday(MIN(visited_at))) * 86400.0 AS duration
			FROM visitors
			WHERE session_id <> ''
			GROUP BY session_id
		)
	`).Scan(&s.AverageSessionDuration)
	if err != nil {
		return Summary{}, fmt.Errorf("average session duration: %w", err)
	}

	return s, nil
}

// Stats returns the admin dashboard statistics.
func (r *Reporter) Stats(ctx context.Context) (*Stats, error) {
	summary, err := r.Summary(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Summary: summary}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM visitors
		WHERE visited_at >= datetime('now', '-7 days')
	`).Scan(&stats.VisitorsThisWeek)
	if err != nil {
		return nil, fmt.Errorf("count weekly visits: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analytics_events`).Scan(&stats.TotalEvents); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	if stats.TopEvents, err = r.topEvents(ctx); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = r.recentVisits(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *Reporter) topEvents(ctx context.Context) ([]ActionCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT action, COALESCE(label, ''), COUNT(*) AS n
		FROM analytics_events
		GROUP BY action, label
		ORDER BY n DESC, action
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("query top events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make([]ActionCount, 0)
	for rows.Next() {
		var ac ActionCount
		if err := rows.Scan(&ac.Action, &ac.Label, &ac.Count); err != nil {
			return nil, fmt.Errorf("scan top event: %w", err)
		}
		counts = append(counts, ac)
	}
	return counts, rows.Err()
}

func (r *Reporter) recentVisits(ctx context.Context) ([]RecentVisit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT 50
	`)
	if err != nil {
		return nil, fmt.Errorf("query recent visitors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	visits := make([]RecentVisit, 0)
	for rows.Next() {
		var v RecentVisit
		if err := rows.Scan(&v.HashedIP, &v.UserAgent, &v.Path, &v.VisitedAt); err != nil {
			return nil, fmt.Errorf("scan recent visitor: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
