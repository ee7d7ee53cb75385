package contact_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/logger"
)

func TestSubmit_ReturnsReceiptAfterDelay(t *testing.T) {
	svc := contact.NewService(20*time.Millisecond, logger.NewNop())
	start := time.Now()

	receipt, err := svc.Submit(context.Background(), contact.Message{
		Name: "Ada", Email: "ada@example.com", Message: "Hello there, let's talk.",
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	_, parseErr := uuid.Parse(receipt.ID)
	assert.NoError(t, parseErr)
	assert.False(t, receipt.ReceivedAt.IsZero())
}

func TestSubmit_HonorsCancellation(t *testing.T) {
	svc := contact.NewService(time.Hour, logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Submit(ctx, contact.Message{})

	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewService_NegativeDelayUsesDefault(t *testing.T) {
	svc := contact.NewService(-1, logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.Submit(ctx, contact.Message{})

	require.ErrorIs(t, err, context.DeadlineExceeded, "default delay outlasts the deadline")
}
