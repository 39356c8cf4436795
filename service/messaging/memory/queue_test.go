package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	RunID string
}

func TestQueue_publishConsume(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](DefaultConfig())

	require.NoError(t, queue.Publish(ctx, &payload{RunID: "r1"}))
	assert.EqualValues(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, "r1", message.T().RunID)
	require.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
}

func TestQueue_retryAndDeadLetter(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](Config{MaxRetries: 1, RetryDelay: time.Millisecond, DeadLetter: true, QueueBuffer: 10})

	require.NoError(t, queue.Publish(ctx, &payload{RunID: "r1"}))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, message.(*Message[payload]).Retries())
	require.NoError(t, message.Nack(fmt.Errorf("simulator crashed")))

	retryCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	retried, err := queue.Consume(retryCtx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, retried.(*Message[payload]).Retries())
	require.NoError(t, retried.Nack(fmt.Errorf("simulator crashed again")))

	assert.Eventually(t, func() bool { return queue.DLQSize() == 1 }, time.Second, 10*time.Millisecond)
}

func TestQueue_consumeHonoursContext(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
