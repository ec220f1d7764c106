// Package seq implements the sequence allocator: unique, strictly increasing
// numbers scoped to a parent entity, backed by Redis atomic counters. The
// API layer allocates a number synchronously before enqueueing the durable
// write, which fixes the logical order of siblings even when persistence
// completes out of order.
//
// Scope keys derive from the parent's internal durable id, never from
// user-supplied tokens, so a reissued external token can never collide with
// a live counter. Every allocation round-trips to Redis, with no in-process
// cache, so uniqueness holds across any number of server
// instances.
package seq

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Scope identifies one counter. Use ChatScope / MessageScope to build it.
type Scope string

// ChatScope is the counter for chat numbers within one application.
func ChatScope(applicationID uint) Scope {
	return Scope(fmt.Sprintf("seq:chats:%d", applicationID))
}

// MessageScope is the counter for message numbers within one chat.
func MessageScope(chatID uint) Scope {
	return Scope(fmt.Sprintf("seq:messages:%d", chatID))
}

// releaseScript decrements the counter only while it still holds the value
// being released. Two failed writers racing each other, or a release racing
// a newer allocation, therefore become no-ops instead of dragging the
// counter below a still-outstanding number. The cost is a permanent gap in
// that scope.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DECR", KEYS[1])
end
return -1
`)

// Allocator issues per-scope sequence numbers from a shared Redis instance.
type Allocator struct {
	rdb redis.Cmdable
}

// NewAllocator wraps an existing Redis client. The client is shared with the
// token generator and the task queue; the allocator issues only counter
// commands on it.
func NewAllocator(rdb redis.Cmdable) *Allocator {
	return &Allocator{rdb: rdb}
}

// Allocate atomically increments the scope's counter and returns the new
// value. The first allocation in a scope returns 1. On Redis failure the
// error is returned as-is; callers must fail the request rather than
// fabricate a number.
func (a *Allocator) Allocate(ctx context.Context, scope Scope) (int64, error) {
	n, err := a.rdb.Incr(ctx, string(scope)).Result()
	if err != nil {
		return 0, fmt.Errorf("seq: allocate %s: %w", scope, err)
	}
	return n, nil
}

// Release returns n to the scope's pool only while it is still the
// most recently allocated value. It reports whether the counter was actually
// decremented; false means a newer allocation won the race and n becomes a
// permanent gap.
//
// Release is compensation, not a transaction: it runs after a downstream
// persist failure and may itself fail without further recovery.
func (a *Allocator) Release(ctx context.Context, scope Scope, n int64) (bool, error) {
	res, err := releaseScript.Run(ctx, a.rdb, []string{string(scope)}, fmt.Sprintf("%d", n)).Int64()
	if err != nil {
		return false, fmt.Errorf("seq: release %s=%d: %w", scope, n, err)
	}
	return res >= 0, nil
}

// Current returns the last allocated number for a scope without consuming
// one. Zero means nothing was ever allocated. Used by reconciliation
// tooling, not by the request path.
func (a *Allocator) Current(ctx context.Context, scope Scope) (int64, error) {
	n, err := a.rdb.Get(ctx, string(scope)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("seq: current %s: %w", scope, err)
	}
	return n, nil
}
