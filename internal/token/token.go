// Package token issues opaque, globally unique identifiers for
// applications. A token combines three encoded components (the unix
// timestamp, a Redis-backed global counter, and 8 cryptographically random
// bytes), shuffled before concatenation. The shuffle is obfuscation only:
// collision resistance comes from the monotonic counter and the random
// bytes, never from component order.
//
// Uniqueness is additionally checked against a bounded tracking set in
// Redis. The set is trimmed once it grows past 10 000 entries by evicting a
// random subset down to 5 000, so long-lived tokens eventually age out of
// the dedup set; the counter component keeps a future collision
// astronomically unlikely regardless. Both the counter and the set live in
// Redis, not process memory, so correctness holds across any number of
// server instances.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	counterKey  = "global:application:token:counter"
	trackingKey = "global:application:tokens:tracking"

	trackingMax  = 10000
	trackingKeep = 5000

	randomBytes = 8
)

// Generator issues unique application tokens backed by Redis state.
type Generator struct {
	rdb redis.Cmdable

	// now, shuffle and randRead are swappable for deterministic tests.
	now      func() time.Time
	shuffle  func([]string)
	randRead func([]byte) (int, error)
}

// NewGenerator wraps an existing Redis client.
func NewGenerator(rdb redis.Cmdable) *Generator {
	return &Generator{
		rdb:      rdb,
		now:      time.Now,
		randRead: rand.Read,
		shuffle: func(parts []string) {
			mrand.Shuffle(len(parts), func(i, j int) {
				parts[i], parts[j] = parts[j], parts[i]
			})
		},
	}
}

// Generate returns a fresh token guaranteed not to collide with any token in
// the tracking set. On collision it regenerates; given the counter component
// the loop is a safety net, not a normal path. The new token is inserted
// into the tracking set and the set is trimmed when oversized.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	var tok string
	for {
		var err error
		tok, err = g.build(ctx)
		if err != nil {
			return "", err
		}
		exists, err := g.rdb.SIsMember(ctx, trackingKey, tok).Result()
		if err != nil {
			return "", fmt.Errorf("token: tracking lookup: %w", err)
		}
		if !exists {
			break
		}
	}

	if err := g.rdb.SAdd(ctx, trackingKey, tok).Err(); err != nil {
		return "", fmt.Errorf("token: tracking insert: %w", err)
	}
	if err := g.trim(ctx); err != nil {
		return "", err
	}
	return tok, nil
}

// build assembles one candidate token from the three shuffled components.
func (g *Generator) build(ctx context.Context) (string, error) {
	id, err := g.rdb.Incr(ctx, counterKey).Result()
	if err != nil {
		return "", fmt.Errorf("token: counter: %w", err)
	}

	buf := make([]byte, randomBytes)
	if _, err := g.randRead(buf); err != nil {
		return "", fmt.Errorf("token: random: %w", err)
	}

	parts := []string{
		strconv.FormatInt(g.now().Unix(), 10),
		strconv.FormatInt(id, 10),
		hex.EncodeToString(buf),
	}
	g.shuffle(parts)
	return parts[0] + parts[1] + parts[2], nil
}

// trim bounds the tracking set: past 10 000 members a random subset is
// evicted until roughly 5 000 remain.
func (g *Generator) trim(ctx context.Context) error {
	size, err := g.rdb.SCard(ctx, trackingKey).Result()
	if err != nil {
		return fmt.Errorf("token: tracking size: %w", err)
	}
	if size <= trackingMax {
		return nil
	}
	excess, err := g.rdb.SRandMemberN(ctx, trackingKey, size-trackingKeep).Result()
	if err != nil {
		return fmt.Errorf("token: tracking sample: %w", err)
	}
	if len(excess) == 0 {
		return nil
	}
	victims := make([]interface{}, len(excess))
	for i, v := range excess {
		victims[i] = v
	}
	if err := g.rdb.SRem(ctx, trackingKey, victims...).Err(); err != nil {
		return fmt.Errorf("token: tracking evict: %w", err)
	}
	return nil
}
