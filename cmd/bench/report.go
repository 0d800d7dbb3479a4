package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/VividCortex/ewma"
	"gopkg.in/natefinch/lumberjack.v2"
)

// sample is one report interval worth of counter deltas.
type sample struct {
	ops, reads, hits uint64
	elapsed          time.Duration
}

func (s sample) hitRate() float64 {
	if s.reads == 0 {
		return 0
	}
	return float64(s.hits) / float64(s.reads)
}

func (s sample) opsPerSec() float64 {
	if s.elapsed <= 0 {
		return 0
	}
	return float64(s.ops) / s.elapsed.Seconds()
}

// reporter turns periodic counter snapshots into per-interval lines with a
// smoothed hit-rate.
type reporter struct {
	policy  string
	out     io.Writer
	hitRate ewma.MovingAverage
	opsRate ewma.MovingAverage

	lastOps, lastReads, lastHits uint64
}

func newReporter(policy string, out io.Writer) *reporter {
	return &reporter{
		policy:  policy,
		out:     out,
		hitRate: ewma.NewMovingAverage(),
		opsRate: ewma.NewMovingAverage(),
	}
}

// observe records the deltas since the previous call.
func (r *reporter) observe(cnt *counters, elapsed time.Duration) sample {
	ops, reads, hits := cnt.total.Load(), cnt.reads.Load(), cnt.hits.Load()
	s := sample{
		ops:     ops - r.lastOps,
		reads:   reads - r.lastReads,
		hits:    hits - r.lastHits,
		elapsed: elapsed,
	}
	r.lastOps, r.lastReads, r.lastHits = ops, reads, hits
	if s.reads > 0 {
		r.hitRate.Add(s.hitRate())
	}
	r.opsRate.Add(s.opsPerSec())
	return s
}

func (r *reporter) write(now time.Time, s sample, resident int) error {
	_, err := fmt.Fprintf(r.out, "%s policy=%s ops/s=%.0f ops/s_ewma=%.0f hit=%.4f hit_ewma=%.4f len=%d\n",
		now.Format(time.RFC3339), r.policy, s.opsPerSec(), r.opsRate.Value(),
		s.hitRate(), r.hitRate.Value(), resident)
	return err
}

// run reports every interval until ctx is done.
func (r *reporter) run(ctx context.Context, interval time.Duration, c benchCache, cnt *counters) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s := r.observe(cnt, now.Sub(last))
			last = now
			if err := r.write(now, s, c.Len()); err != nil {
				return err
			}
		}
	}
}

// statsLogWriter opens the rotated stats log, or returns nil when disabled.
func statsLogWriter(config StatsLogConfig) io.WriteCloser {
	if config.File == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    config.MaxSize,
		MaxAge:     config.MaxAge,
		MaxBackups: config.MaxBackups,
		LocalTime:  true,
	}
}
