// Package sequence hands out per-partition event sequence numbers from the event_sequence table.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var ErrMissingPartition = errors.New("sequence: partition key is required")

// Querier is the part of pgxpool.Pool the counter uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Counter struct {
	db Querier
}

func NewCounter(db Querier) *Counter {
	return &Counter{db: db}
}

const reserveSQL = `
INSERT INTO event_sequence AS s (partition_key, last_sequence)
VALUES ($1, 1)
ON CONFLICT (partition_key)
DO UPDATE SET last_sequence = s.last_sequence + 1, updated_at = now()
RETURNING last_sequence`

const currentSQL = `SELECT last_sequence FROM event_sequence WHERE partition_key = $1`

// Next reserves the next number for partition. The first reservation is 1.
func (c *Counter) Next(ctx context.Context, partition string) (int64, error) {
	if partition == "" {
		return 0, ErrMissingPartition
	}
	var n int64
	if err := c.db.QueryRow(ctx, reserveSQL, partition).Scan(&n); err != nil {
		return 0, fmt.Errorf("reserve %s sequence: %w", partition, err)
	}
	return n, nil
}

// Current is the last number reserved for partition, or 0 if none was.
func (c *Counter) Current(ctx context.Context, partition string) (int64, error) {
	if partition == "" {
		return 0, ErrMissingPartition
	}
	var n int64
	err := c.db.QueryRow(ctx, currentSQL, partition).Scan(&n)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read %s sequence: %w", partition, err)
	}
	return n, nil
}
