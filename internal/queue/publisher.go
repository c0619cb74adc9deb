package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// Publisher pushes raw listings onto the Redis work queue.
type Publisher struct {
	client    *redis.Client
	queueName string
}

// NewPublisher creates a queue publisher.
func NewPublisher(client *redis.Client, queueName string) *Publisher {
	if queueName == "" {
		queueName = "listings:raw"
	}
	return &Publisher{
		client:    client,
		queueName: queueName,
	}
}

// Publish pushes a single raw listing to the queue.
func (p *Publisher) Publish(ctx context.Context, listing *domain.RawListing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}

	if err := p.client.LPush(ctx, p.queueName, data).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}

	return nil
}

// PublishBatch pushes multiple raw listings in a single pipeline round trip.
func (p *Publisher) PublishBatch(ctx context.Context, listings []*domain.RawListing) error {
	if len(listings) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, listing := range listings {
		data, err := json.Marshal(listing)
		if err != nil {
			return fmt.Errorf("marshal listing: %w", err)
		}
		pipe.LPush(ctx, p.queueName, data)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}

	return nil
}

// QueueLength returns the current queue length.
func (p *Publisher) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, p.queueName).Result()
}
