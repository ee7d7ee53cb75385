package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/database"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/telemetry"
)

const (
	// columnsPerRow is the number of columns inserted per event row.
	columnsPerRow = 6

	// insertBatchSize is the maximum number of rows per INSERT statement.
	insertBatchSize = 50

	// flushTimeout bounds each flush operation.
	flushTimeout = 5 * time.Second
)

// Store drains a Buffer into the analytics_events table.
type Store struct {
	db             *sql.DB
	buffer         *Buffer
	log            logger.Logger
	metrics        *telemetry.Metrics
	flushInterval  time.Duration
	flushThreshold int
	wg             sync.WaitGroup
}

// NewStore creates a Store that batch-inserts events read from buffer.
func NewStore(
	db *sql.DB,
	buffer *Buffer,
	log logger.Logger,
	metrics *telemetry.Metrics,
	flushInterval time.Duration,
	flushThreshold int,
) *Store {
	return &Store{
		db:             db,
		buffer:         buffer,
		log:            log,
		metrics:        metrics,
		flushInterval:  flushInterval,
		flushThreshold: flushThreshold,
	}
}

// Start launches the flush goroutine.
func (s *Store) Start() {
	s.wg.Add(1)
	go s.flushLoop()
}

// Stop closes the buffer and waits for the remaining events to be written.
func (s *Store) Stop() {
	s.buffer.Close()
	s.wg.Wait()
}

func (s *Store) flushLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, s.flushThreshold)

	for {
		select {
		case event := <-s.buffer.events:
			batch = append(batch, event)
			if len(batch) >= s.flushThreshold {
				s.flush(batch)
				batch = make([]Event, 0, s.flushThreshold)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = make([]Event, 0, s.flushThreshold)
			}

		case <-s.buffer.closed:
			s.drain(&batch)
			if len(batch) > 0 {
				s.flush(batch)
			}
			return
		}
	}
}

func (s *Store) drain(batch *[]Event) {
	for {
		select {
		case event := <-s.buffer.events:
			*batch = append(*batch, event)
		default:
			return
		}
	}
}

func (s *Store) flush(batch []Event) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	written := 0
	for start := 0; start < len(batch); start += insertBatchSize {
		end := min(start+insertBatchSize, len(batch))
		if err := s.batchInsert(ctx, batch[start:end]); err != nil {
			s.log.Error("Failed to insert analytics events",
				logger.Error(err),
				logger.Int("batch_size", end-start),
			)
			continue
		}
		written += end - start
	}

	if s.metrics != nil {
		s.metrics.EventsFlushed.Add(float64(written))
	}
	s.log.Debug("Flushed analytics events", logger.Int("total", written))
}

func (s *Store) batchInsert(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	args := make([]any, 0, len(events)*columnsPerRow)
	var sb strings.Builder
	sb.WriteString("INSERT INTO analytics_events (action, category, label, value, session_id, occurred_at) VALUES ")

	for i := range events {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?)")
		args = append(args,
			events[i].Action, events[i].Category, events[i].Label, events[i].Value,
			events[i].SessionID, database.FormatTime(events[i].OccurredAt),
		)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("exec batch insert: %w", err)
	}
	return nil
}
