package singleflight

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestGroup_CoalescesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	var calls atomic.Int32
	release := make(chan struct{})

	var eg errgroup.Group
	results := make([]int, 16)
	for i := range results {
		eg.Go(func() error {
			v, _, err := g.Do(context.Background(), "k", func() (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
			results[i] = v
			return err
		})
	}
	// Let the leader start and followers pile up before releasing it.
	for !g.InFlight("k") {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	close(release)

	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("fn must run once, ran %d times", n)
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("caller %d got %d", i, v)
		}
	}
	if g.InFlight("k") {
		t.Fatal("key must not stay in flight")
	}
}

func TestGroup_ErrorAndFollowerCancel(t *testing.T) {
	t.Parallel()

	var g Group[int, string]
	boom := errors.New("boom")
	if _, shared, err := g.Do(context.Background(), 1, func() (string, error) { return "", boom }); !errors.Is(err, boom) || shared {
		t.Fatalf("want unshared boom, got shared=%v err=%v", shared, err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _, _ = g.Do(context.Background(), 2, func() (string, error) {
			close(started)
			<-release
			return "late", nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Do(ctx, 2, func() (string, error) { return "", nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled follower want context.Canceled, got %v", err)
	}
	close(release)
}
