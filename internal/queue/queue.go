// Azafea - Event Ingestion Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/azafea

package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/azafea/internal/config"
)

// DeadLetterPrefix is prepended to a queue name to form its dead-letter
// queue.
const DeadLetterPrefix = config.DeadLetterPrefix

// ErrEmpty is returned by Pop when no record arrived before the timeout.
var ErrEmpty = errors.New("queue: no record before timeout")

// DeadLetterName returns the dead-letter queue of queue.
func DeadLetterName(queue string) string {
	return DeadLetterPrefix + queue
}

// IsDeadLetter reports whether queue is a dead-letter queue.
func IsDeadLetter(queue string) bool {
	return strings.HasPrefix(queue, DeadLetterPrefix)
}

// Client is a connection to the Redis server holding the queues.
type Client struct {
	rdb *redis.Client
}

// New returns a client for cfg. No connection is made until first use.
func New(cfg *config.RedisConfig) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
		// Blocking commands extend the read deadline by their own timeout.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     2,
	})}
}

// Ping checks that the server answers.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach Redis at %s: %w", c.rdb.Options().Addr, err)
	}
	return nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Pop blocks up to timeout for a record on any of queues, checked in order.
// It returns the queue the record came from.
func (c *Client) Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, []byte, error) {
	if len(queues) == 0 {
		return "", nil, errors.New("queue: Pop needs at least one queue")
	}

	res, err := c.rdb.BRPop(ctx, timeout, queues...).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, ErrEmpty
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to pop from %s: %w", strings.Join(queues, ", "), err)
	}
	if len(res) != 2 {
		return "", nil, fmt.Errorf("queue: unexpected BRPOP reply of %d elements", len(res))
	}
	return res[0], []byte(res[1]), nil
}

// Push adds data to the head of queue.
func (c *Client) Push(ctx context.Context, queue string, data []byte) error {
	if err := c.rdb.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push to %s: %w", queue, err)
	}
	return nil
}

// Requeue puts data back at the tail of queue, so it is the next record
// popped from it.
func (c *Client) Requeue(ctx context.Context, queue string, data []byte) error {
	if err := c.rdb.RPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to requeue to %s: %w", queue, err)
	}
	return nil
}

// DeadLetter pushes data verbatim onto the dead-letter queue of queue.
func (c *Client) DeadLetter(ctx context.Context, queue string, data []byte) error {
	return c.Push(ctx, DeadLetterName(queue), data)
}

// Len returns the number of records waiting on queue.
func (c *Client) Len(ctx context.Context, queue string) (int64, error) {
	n, err := c.rdb.LLen(ctx, queue).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get length of %s: %w", queue, err)
	}
	return n, nil
}

// MoveAll moves every record of src onto dst, oldest first, so dst
// consumers see them in their original order. It returns the number moved.
// Each move is atomic; an interrupted call leaves every record on exactly
// one of the lists.
func (c *Client) MoveAll(ctx context.Context, src, dst string) (int64, error) {
	var moved int64
	for {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		err := c.rdb.LMove(ctx, src, dst, "RIGHT", "LEFT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
		}
		moved++
	}
}

// Range returns the records of queue from head to tail without removing
// them.
func (c *Client) Range(ctx context.Context, queue string) ([][]byte, error) {
	vals, err := c.rdb.LRange(ctx, queue, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", queue, err)
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}
