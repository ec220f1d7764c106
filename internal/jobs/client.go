package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/tbourn/go-chat-system/internal/config"
)

// Client enqueues tasks on the shared Redis queue. It satisfies the
// services.Enqueuer contract; an enqueue failure is an infrastructure error
// and the caller is expected to compensate the sequence number it already
// allocated.
type Client struct {
	inner    *asynq.Client
	maxRetry int
}

// NewClient builds an enqueue-only queue client.
func NewClient(redisCfg config.RedisConfig, queueCfg config.QueueConfig) *Client {
	return &Client{
		inner: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		}),
		maxRetry: queueCfg.MaxRetry,
	}
}

// Close releases the underlying Redis connections.
func (c *Client) Close() error { return c.inner.Close() }

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, err error) error {
	if err != nil {
		return err
	}
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(c.maxRetry)); err != nil {
		return fmt.Errorf("jobs: enqueue %s: %w", task.Type(), err)
	}
	return nil
}

// EnqueueCreateApplication schedules the durable application insert.
func (c *Client) EnqueueCreateApplication(ctx context.Context, p CreateApplicationPayload) error {
	t, err := NewCreateApplicationTask(p)
	return c.enqueue(ctx, t, err)
}

// EnqueueCreateChat schedules the durable chat insert.
func (c *Client) EnqueueCreateChat(ctx context.Context, p CreateChatPayload) error {
	t, err := NewCreateChatTask(p)
	return c.enqueue(ctx, t, err)
}

// EnqueueSendMessage schedules the durable message insert and its indexing.
func (c *Client) EnqueueSendMessage(ctx context.Context, p SendMessagePayload) error {
	t, err := NewSendMessageTask(p)
	return c.enqueue(ctx, t, err)
}
