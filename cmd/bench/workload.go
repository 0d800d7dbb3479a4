package main

import (
	"context"
	"math/rand"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// counters are shared by all workers and sampled by the reporter.
type counters struct {
	total  atomic.Uint64
	reads  atomic.Uint64
	writes atomic.Uint64
	hits   atomic.Uint64
	misses atomic.Uint64
}

func key(i uint64) string { return "k:" + strconv.FormatUint(i, 10) }

// preload fills c with keys 0..n-1 to get a realistic hit-rate from the start.
func preload(c benchCache, n int) {
	for i := 0; i < n; i++ {
		c.Set(key(uint64(i)), "v"+strconv.Itoa(i))
	}
}

// runWorkload drives c with config.Workers goroutines until ctx is done.
// Keys follow a Zipf distribution over [0, config.Keys).
func runWorkload(ctx context.Context, c benchCache, config Config, cnt *counters) error {
	g, ctx := errgroup.WithContext(ctx)
	keysMax := uint64(config.Keys - 1)
	for w := 0; w < config.Workers; w++ {
		id := w
		g.Go(func() error {
			// rand.Rand is not goroutine-safe; one generator per worker.
			r := rand.New(rand.NewSource(config.Seed + int64(id)*9973))
			zipf := rand.NewZipf(r, config.ZipfS, config.ZipfV, keysMax)

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				cnt.total.Add(1)
				k := key(zipf.Uint64())
				if int(r.Int31n(100)) < config.ReadPct {
					cnt.reads.Add(1)
					if _, ok := c.Get(k); ok {
						cnt.hits.Add(1)
					} else {
						cnt.misses.Add(1)
					}
					continue
				}
				cnt.writes.Add(1)
				c.Set(k, "v"+strconv.Itoa(r.Int()))
			}
		})
	}
	return g.Wait()
}
