package seq

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestAllocator(t *testing.T) (*Allocator, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewAllocator(rdb), mr
}

func TestAllocate_StartsAtOneAndIncrements(t *testing.T) {
	a, _ := newTestAllocator(t)
	ctx := context.Background()
	scope := ChatScope(7)

	for want := int64(1); want <= 3; want++ {
		got, err := a.Allocate(ctx, scope)
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		if got != want {
			t.Fatalf("Allocate = %d, want %d", got, want)
		}
	}
}

func TestAllocate_ScopesAreIndependent(t *testing.T) {
	a, _ := newTestAllocator(t)
	ctx := context.Background()

	n1, _ := a.Allocate(ctx, ChatScope(1))
	n2, _ := a.Allocate(ctx, ChatScope(2))
	m1, _ := a.Allocate(ctx, MessageScope(1))
	if n1 != 1 || n2 != 1 || m1 != 1 {
		t.Fatalf("independent scopes polluted each other: %d %d %d", n1, n2, m1)
	}
	// Chat id 1 and application id 1 must not share a counter either.
	if ChatScope(1) == MessageScope(1) {
		t.Fatal("chat and message scopes collide for equal ids")
	}
}

func TestAllocate_ConcurrentCallersGetDistinctContiguousRun(t *testing.T) {
	a, _ := newTestAllocator(t)
	ctx := context.Background()
	scope := MessageScope(9)

	const n = 50
	var (
		mu   sync.Mutex
		got  []int64
		wg   sync.WaitGroup
		errs = make(chan error, n)
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			v, err := a.Allocate(ctx, scope)
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Allocate: %v", err)
	}

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != n {
		t.Fatalf("len = %d, want %d", len(got), n)
	}
	for i, v := range got {
		if v != int64(i+1) {
			t.Fatalf("allocations are not the contiguous run 1..%d: %v", n, got)
		}
	}
}

func TestRelease_LastAllocatedOnly(t *testing.T) {
	a, _ := newTestAllocator(t)
	ctx := context.Background()
	scope := ChatScope(3)

	one, _ := a.Allocate(ctx, scope)
	two, _ := a.Allocate(ctx, scope)

	// Releasing a stale value must be refused.
	ok, err := a.Release(ctx, scope, one)
	if err != nil {
		t.Fatalf("Release stale: %v", err)
	}
	if ok {
		t.Fatal("stale release decremented the counter below an outstanding number")
	}

	// Releasing the newest value hands it back out on the next allocation.
	ok, err = a.Release(ctx, scope, two)
	if err != nil || !ok {
		t.Fatalf("Release newest: ok=%v err=%v", ok, err)
	}
	next, _ := a.Allocate(ctx, scope)
	if next != two {
		t.Fatalf("post-release Allocate = %d, want %d reissued", next, two)
	}
}

func TestRelease_RaceLeavesGapNotCorruption(t *testing.T) {
	a, _ := newTestAllocator(t)
	ctx := context.Background()
	scope := ChatScope(4)

	n1, _ := a.Allocate(ctx, scope) // 1
	n2, _ := a.Allocate(ctx, scope) // 2, this writer will "fail" and release late

	// A release of n1 after n2 was handed out must be a no-op.
	if ok, _ := a.Release(ctx, scope, n1); ok {
		t.Fatal("late release succeeded; counter corrupted")
	}
	cur, _ := a.Current(ctx, scope)
	if cur != n2 {
		t.Fatalf("Current = %d, want %d", cur, n2)
	}
}

func TestAllocate_StoreUnavailableFailsFast(t *testing.T) {
	a, mr := newTestAllocator(t)
	mr.Close()

	if _, err := a.Allocate(context.Background(), ChatScope(1)); err == nil {
		t.Fatal("expected error when counter store is down")
	}
	if _, err := a.Release(context.Background(), ChatScope(1), 1); err == nil {
		t.Fatal("expected error on release when counter store is down")
	}
}

func TestCurrent_ZeroWhenUnallocated(t *testing.T) {
	a, _ := newTestAllocator(t)
	cur, err := a.Current(context.Background(), ChatScope(55))
	if err != nil || cur != 0 {
		t.Fatalf("Current = %d, %v; want 0, nil", cur, err)
	}
}
