// Package metrics keeps the live metrics widget's snapshot fresh by polling
// the public GitHub activity feed and the analytics summary on a fixed cadence.
package metrics

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/github"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/telemetry"
)

// Defaults for the refresh cycle.
const (
	DefaultInterval        = 5 * time.Minute
	DefaultFetchTimeout    = 10 * time.Second
	DefaultEventLimit      = github.MaxPerPage
	DefaultActiveDayWindow = 50
	DefaultCommitWindow    = 30 * 24 * time.Hour
)

// Fallback ranges substituted when the analytics summary is unavailable.
const (
	FallbackPageViewsMin = 8000
	FallbackPageViewsMax = 9100
	FallbackVisitorsMin  = 2000
	FallbackVisitorsMax  = 2500
)

// Source labels used in logs and metrics.
const (
	sourceCommits   = "github_events"
	sourceAnalytics = "analytics_summary"
)

// Snapshot is the best-known value of every displayed metric.
type Snapshot struct {
	CommitsLast30Days int       `json:"commits_last_30_days"`
	ActiveDayCount    int       `json:"active_day_count"`
	PageViews         int64     `json:"page_views"`
	VisitorCount      int64     `json:"visitor_count"`
	IsLoading         bool      `json:"is_loading"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EventFeed supplies an actor's recent public events, newest first.
type EventFeed interface {
	PublicEvents(ctx context.Context, actor string, perPage int) ([]github.Event, error)
}

// SummarySource supplies page view and visitor counts.
type SummarySource interface {
	Summary(ctx context.Context) (analytics.Summary, error)
}

// Options tunes an Aggregator. Zero values fall back to the defaults above.
type Options struct {
	Actor           string
	Interval        time.Duration
	FetchTimeout    time.Duration
	EventLimit      int
	ActiveDayWindow int
	CommitWindow    time.Duration
	// Location decides calendar days for the active day count.
	Location *time.Location
	Now      func() time.Time
	// IntN draws the fallback values; it must return a value in [0, n).
	IntN    func(n int) int
	Metrics *telemetry.Metrics
}

func (o *Options) setDefaults() {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.EventLimit <= 0 {
		o.EventLimit = DefaultEventLimit
	}
	if o.ActiveDayWindow <= 0 {
		o.ActiveDayWindow = DefaultActiveDayWindow
	}
	if o.CommitWindow <= 0 {
		o.CommitWindow = DefaultCommitWindow
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.IntN == nil {
		o.IntN = rand.IntN
	}
}

// Aggregator owns the live metrics Snapshot. The commit fields and the
// traffic fields are each written by exactly one fetch, so a failure in one
// source never touches the other's values.
type Aggregator struct {
	feed    EventFeed
	summary SummarySource
	log     logger.Logger
	opts    Options

	mu        sync.RWMutex
	snap      Snapshot
	mutations uint64
	started   bool
	stopped   bool
	cancel    context.CancelFunc
	loop      sync.WaitGroup
	fetches   sync.WaitGroup
}

// New creates an Aggregator whose snapshot starts in the loading state.
func New(feed EventFeed, summary SummarySource, log logger.Logger, opts Options) *Aggregator {
	opts.setDefaults()
	return &Aggregator{
		feed:    feed,
		summary: summary,
		log:     log.With(logger.String("component", "metrics_aggregator")),
		opts:    opts,
		snap:    Snapshot{IsLoading: true},
	}
}

// Start runs a tick immediately and then every Interval until Stop is called
// or ctx is cancelled. Only the first call has any effect.
func (a *Aggregator) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started || a.stopped {
		a.mu.Unlock()
		return
	}
	a.started = true
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.log.Info("Starting live metrics refresh",
		logger.String("actor", a.opts.Actor),
		logger.Duration("interval", a.opts.Interval),
	)

	a.loop.Add(1)
	go a.run(runCtx)
}

// Stop cancels the schedule and any in-flight fetches and waits for them to
// return. Results that arrive after Stop are discarded. Stop is safe to call
// without Start and more than once.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	cancel := a.cancel
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.loop.Wait()
	a.fetches.Wait()
	a.log.Info("Stopped live metrics refresh")
}

// Snapshot returns a copy of the current snapshot.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// Mutations returns how many times the snapshot has been written.
func (a *Aggregator) Mutations() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mutations
}

func (a *Aggregator) run(ctx context.Context) {
	defer a.loop.Done()

	a.tick(ctx)

	ticker := time.NewTicker(a.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

// tick dispatches both fetches without waiting for either.
func (a *Aggregator) tick(ctx context.Context) {
	a.fetches.Add(2)
	go func() {
		defer a.fetches.Done()
		a.FetchAndMergeCommitActivity(ctx)
	}()
	go func() {
		defer a.fetches.Done()
		a.FetchAndMergeAnalyticsSummary(ctx)
	}()

	a.merge(func(s *Snapshot) bool {
		if !s.IsLoading {
			return false
		}
		s.IsLoading = false
		return true
	})
}

// FetchAndMergeCommitActivity refreshes CommitsLast30Days and ActiveDayCount.
// On failure the previous values are kept.
func (a *Aggregator) FetchAndMergeCommitActivity(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	events, err := a.feed.PublicEvents(fetchCtx, a.opts.Actor, a.opts.EventLimit)
	a.observe(sourceCommits, start, err)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.log.Warn("Commit activity fetch failed, keeping last known values",
			logger.String("actor", a.opts.Actor),
			logger.Error(err),
		)
		return
	}

	now := a.opts.Now()
	commits := CountRecentPushes(events, now, a.opts.CommitWindow)
	days := CountActiveDays(events, a.opts.ActiveDayWindow, a.opts.Location)

	a.merge(func(s *Snapshot) bool {
		s.CommitsLast30Days = commits
		s.ActiveDayCount = days
		return true
	})
}

// FetchAndMergeAnalyticsSummary refreshes PageViews and VisitorCount. On
// failure it substitutes values drawn from the fallback ranges.
func (a *Aggregator) FetchAndMergeAnalyticsSummary(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	summary, err := a.summary.Summary(fetchCtx)
	a.observe(sourceAnalytics, start, err)
	if err != nil {
		if ctx.Err() != nil {
			// Shutting down; nothing will display the fallback.
			return
		}
		summary = a.fallbackSummary()
		a.log.Warn("Analytics summary fetch failed, using fallback values",
			logger.Int64("page_views", summary.PageViews),
			logger.Int64("visitors", summary.Visitors),
			logger.Error(err),
		)
	}

	a.merge(func(s *Snapshot) bool {
		s.PageViews = summary.PageViews
		s.VisitorCount = summary.Visitors
		return true
	})
}

func (a *Aggregator) fallbackSummary() analytics.Summary {
	return analytics.Summary{
		PageViews: int64(FallbackPageViewsMin + a.opts.IntN(FallbackPageViewsMax-FallbackPageViewsMin+1)),
		Visitors:  int64(FallbackVisitorsMin + a.opts.IntN(FallbackVisitorsMax-FallbackVisitorsMin+1)),
	}
}

// merge applies update under the lock unless the aggregator is stopped.
// update reports whether it changed anything.
func (a *Aggregator) merge(update func(*Snapshot) bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	if !update(&a.snap) {
		return
	}
	a.snap.UpdatedAt = a.opts.Now()
	a.mutations++
	a.publish()
}

func (a *Aggregator) publish() {
	m := a.opts.Metrics
	if m == nil {
		return
	}
	m.CommitsLast30Days.Set(float64(a.snap.CommitsLast30Days))
	m.ActiveDays.Set(float64(a.snap.ActiveDayCount))
	m.PageViews.Set(float64(a.snap.PageViews))
	m.Visitors.Set(float64(a.snap.VisitorCount))
}

func (a *Aggregator) observe(source string, start time.Time, err error) {
	m := a.opts.Metrics
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		m.FetchFailures.WithLabelValues(source).Inc()
	}
}
