package analytics

import (
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/telemetry"
)

// Buffer is a channel-based event buffer for non-blocking ingestion.
type Buffer struct {
	events chan Event
	closed chan struct{}
	once   sync.Once
}

// NewBuffer creates a buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		events: make(chan Event, capacity),
		closed: make(chan struct{}),
	}
}

// Send performs a non-blocking send. It returns false when the buffer is full
// or closed.
func (b *Buffer) Send(event Event) bool {
	select {
	case <-b.closed:
		return false
	default:
	}
	select {
	case b.events <- event:
		return true
	default:
		return false
	}
}

// Len returns the number of events waiting in the buffer.
func (b *Buffer) Len() int {
	return len(b.events)
}

// Close stops the buffer accepting events. Safe to call more than once.
func (b *Buffer) Close() {
	b.once.Do(func() {
		close(b.closed)
	})
}

// Sink is the analytics event sink. Every method returns immediately and
// never reports failure to the caller.
type Sink struct {
	buffer  *Buffer
	log     logger.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
}

// NewSink creates a Sink feeding buffer. metrics may be nil.
func NewSink(buffer *Buffer, log logger.Logger, metrics *telemetry.Metrics) *Sink {
	return &Sink{
		buffer:  buffer,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
}

// Track enqueues event, stamping OccurredAt when unset.
func (s *Sink) Track(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if !s.buffer.Send(event) {
		s.log.Warn("Analytics buffer full, dropping event",
			logger.String("action", event.Action),
			logger.String("label", event.Label),
		)
		if s.metrics != nil {
			s.metrics.EventsDropped.Inc()
		}
		return
	}
	if s.metrics != nil {
		s.metrics.EventsTracked.WithLabelValues(event.Action).Inc()
	}
}

// TrackViewChange records an audience view selection.
func (s *Sink) TrackViewChange(sessionID, view string) {
	s.track(ActionViewChange, view, sessionID)
}

// TrackProjectView records a project being opened.
func (s *Sink) TrackProjectView(sessionID, project string) {
	s.track(ActionProjectView, project, sessionID)
}

// TrackContactClick records a click on a contact channel.
func (s *Sink) TrackContactClick(sessionID, platform string) {
	s.track(ActionContactClick, platform, sessionID)
}

// TrackDownload records a resume download.
func (s *Sink) TrackDownload(sessionID, fileName string) {
	s.track(ActionDownload, fileName, sessionID)
}

func (s *Sink) track(action, label, sessionID string) {
	event, err := NewEvent(action, label, sessionID)
	if err != nil {
		s.log.Warn("Dropping analytics event", logger.Error(err))
		return
	}
	s.Track(event)
}
