package preference

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/Zachkp/portfolio/internal/logger"
)

// WidgetKey stores whether the live metrics widget is minimized.
const WidgetKey = "live-metrics-minimized"

// Widget is the live metrics widget's minimized flag for one visitor.
type Widget struct {
	kv  KV
	log logger.Logger

	mu        sync.Mutex
	minimized bool
}

// NewWidget creates a Widget backed by kv. It starts expanded until Load.
func NewWidget(kv KV, log logger.Logger) *Widget {
	return &Widget{kv: kv, log: log}
}

// Load reads the stored flag. Anything other than a stored, parseable value
// reads as expanded.
func (w *Widget) Load(ctx context.Context) bool {
	minimized := false
	raw, err := w.kv.Get(ctx, WidgetKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		w.log.Warn("Failed to read widget preference", logger.Error(err))
	default:
		v, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			w.log.Warn("Ignoring unreadable widget preference",
				logger.String("value", raw),
				logger.Error(parseErr),
			)
		} else {
			minimized = v
		}
	}

	w.mu.Lock()
	w.minimized = minimized
	w.mu.Unlock()
	return minimized
}

// Toggle flips the stored flag in one storage step, so concurrent toggles
// from the same visitor are not lost. If storage fails the in-memory value
// still flips.
func (w *Widget) Toggle(ctx context.Context) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	minimized, err := w.kv.ToggleBool(ctx, WidgetKey)
	if err != nil {
		minimized = !w.minimized
		w.log.Warn("Failed to save widget preference",
			logger.Bool("minimized", minimized),
			logger.Error(err),
		)
	}
	w.minimized = minimized
	return minimized
}

// Minimized returns the in-memory flag.
func (w *Widget) Minimized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized
}
