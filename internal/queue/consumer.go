package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// Consumer pulls raw listings off the Redis work queue.
type Consumer struct {
	client    *redis.Client
	queueName string
	timeout   time.Duration
}

// NewConsumer creates a queue consumer.
func NewConsumer(client *redis.Client, queueName string, timeout time.Duration) *Consumer {
	if queueName == "" {
		queueName = "listings:raw"
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Consumer{
		client:    client,
		queueName: queueName,
		timeout:   timeout,
	}
}

// Consume blocks until one listing is available or the poll timeout passes.
// Returns nil, nil on timeout.
func (c *Consumer) Consume(ctx context.Context) (*domain.RawListing, error) {
	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var listing domain.RawListing
	if err := json.Unmarshal([]byte(result[1]), &listing); err != nil {
		return nil, fmt.Errorf("unmarshal listing: %w", err)
	}

	return &listing, nil
}

// ConsumeBatch pulls up to maxBatch listings. The first item is taken with
// BRPOP so an idle consumer blocks instead of spinning; the rest of the batch
// is drained with non-blocking RPOPs.
func (c *Consumer) ConsumeBatch(ctx context.Context, maxBatch int) ([]*domain.RawListing, error) {
	listings := make([]*domain.RawListing, 0, maxBatch)

	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return listings, nil
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) >= 2 {
		var listing domain.RawListing
		if err := json.Unmarshal([]byte(result[1]), &listing); err == nil {
			listings = append(listings, &listing)
		}
	}

	for i := 1; i < maxBatch; i++ {
		result, err := c.client.RPop(ctx, c.queueName).Result()
		if err != nil {
			if err == redis.Nil {
				break
			}
			return listings, fmt.Errorf("rpop: %w", err)
		}

		var listing domain.RawListing
		if err := json.Unmarshal([]byte(result), &listing); err != nil {
			continue // skip malformed payloads
		}

		listings = append(listings, &listing)
	}

	return listings, nil
}
