package view

import (
	"fmt"
	"sync"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/telemetry"
)

// Notifier receives view selections. Implementations must not block.
type Notifier interface {
	TrackViewChange(sessionID, view string)
}

// Controller holds one visitor's active view. Every transition between views
// is allowed, including selecting the current view again.
type Controller struct {
	sessionID string
	notifier  Notifier
	log       logger.Logger
	metrics   *telemetry.Metrics

	mu     sync.RWMutex
	active View
	writes uint64
}

// NewController creates a Controller on the home view. notifier and metrics
// may be nil.
func NewController(sessionID string, notifier Notifier, log logger.Logger, metrics *telemetry.Metrics) *Controller {
	return &Controller{
		sessionID: sessionID,
		notifier:  notifier,
		log:       log,
		metrics:   metrics,
	}
}

// Select makes v the active view and, unless v is None, notifies once.
func (c *Controller) Select(v View) {
	c.mu.Lock()
	c.active = v
	c.writes++
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.ViewChanges.WithLabelValues(v.String()).Inc()
	}
	if v == None {
		return
	}
	c.notify(v)
}

// Home returns to the home view without notifying.
func (c *Controller) Home() {
	c.Select(None)
}

// Active returns the current view.
func (c *Controller) Active() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Writes returns how many times the active view has been set.
func (c *Controller) Writes() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.writes
}

// SessionID returns the visitor session the controller belongs to.
func (c *Controller) SessionID() string {
	return c.sessionID
}

func (c *Controller) notify(v View) {
	if c.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("View change notifier panicked",
				logger.String("session_id", c.sessionID),
				logger.String("view", v.String()),
				logger.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	c.notifier.TrackViewChange(c.sessionID, v.String())
}
