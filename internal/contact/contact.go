// Package contact accepts contact form submissions. Nothing is delivered;
// a submission is acknowledged after a short simulated delay.
package contact

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/logger"
)

// DefaultDelay is how long a submission takes to be acknowledged.
const DefaultDelay = 1500 * time.Millisecond

// Message is a contact form submission. The form field for the name is
// fullName; JSON clients send name.
type Message struct {
	Name    string `form:"fullName" json:"name" binding:"required,min=2,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email,max=254"`
	Message string `form:"message" json:"message" binding:"required,min=10,max=5000"`
}

// Receipt acknowledges a submission.
type Receipt struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
}

// Service acknowledges contact messages.
type Service struct {
	delay time.Duration
	log   logger.Logger
	now   func() time.Time
}

// NewService creates a Service. A negative delay uses DefaultDelay.
func NewService(delay time.Duration, log logger.Logger) *Service {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Service{delay: delay, log: log, now: time.Now}
}

// Submit waits out the simulated delay and returns a receipt. It fails only
// when ctx ends first.
func (s *Service) Submit(ctx context.Context, msg Message) (Receipt, error) {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	case <-timer.C:
	}

	receipt := Receipt{ID: uuid.NewString(), ReceivedAt: s.now().UTC()}
	s.log.Info("Contact message received",
		logger.String("receipt_id", receipt.ID),
		logger.Int("message_length", len(msg.Message)),
	)
	return receipt, nil
}
