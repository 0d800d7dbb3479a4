// Package singleflight coalesces concurrent loads of the same key.
package singleflight

import (
	"context"
	"sync"
)

// Group runs at most one fn per key at a time; concurrent callers for that
// key wait for the leader and receive its result.
//
// A follower whose ctx is cancelled stops waiting and returns ctx.Err(); the
// leader keeps running. Cancellation of the work itself is fn's business.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed once val/err are set
	val  V
	err  error
	dups int
}

// Do executes fn for key unless a call is already in flight, in which case
// it waits for that call. shared reports whether the result was handed to
// more than one caller.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (v V, shared bool, err error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		c.dups++
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.val, true, c.err
		case <-ctx.Done():
			var zero V
			return zero, true, ctx.Err()
		}
	}
	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.m, key)
	shared = c.dups > 0
	g.mu.Unlock()
	close(c.done)

	return c.val, shared, c.err
}

// InFlight reports whether a call for key is currently running.
func (g *Group[K, V]) InFlight(key K) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.m[key]
	return ok
}
