package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func smallConfig(policy string) Config {
	config := newConfig()
	config.Policy = policy
	config.Capacity = 256
	config.Keys = 4096
	config.Workers = 4
	config.Seed = 1
	config.ReportInterval.Duration = 10 * time.Millisecond
	return config
}

func TestRunWorkload_AllPolicies(t *testing.T) {
	t.Parallel()
	for _, p := range []string{policyS3FIFO, policyLRU, policyARC} {
		p := p
		t.Run(p, func(t *testing.T) {
			t.Parallel()
			config := smallConfig(p)
			if err := config.validate(); err != nil {
				t.Fatal(err)
			}
			c, closeCache, err := newBenchCache(config, nil)
			if err != nil {
				t.Fatal(err)
			}
			defer closeCache()

			preload(c, config.Preload)
			if c.Len() == 0 {
				t.Fatal("preload left the cache empty")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			var cnt counters
			if err := runWorkload(ctx, c, config, &cnt); err != nil {
				t.Fatal(err)
			}
			if cnt.total.Load() == 0 {
				t.Fatal("no operations ran")
			}
			if got := cnt.reads.Load() + cnt.writes.Load(); got != cnt.total.Load() {
				t.Fatalf("reads+writes=%d total=%d", got, cnt.total.Load())
			}
			if got := cnt.hits.Load() + cnt.misses.Load(); got != cnt.reads.Load() {
				t.Fatalf("hits+misses=%d reads=%d", got, cnt.reads.Load())
			}
			if c.Len() > config.Capacity*2 {
				t.Fatalf("Len()=%d far above capacity %d", c.Len(), config.Capacity)
			}
		})
	}
}

func TestNewBenchCache_UnknownPolicy(t *testing.T) {
	t.Parallel()
	config := smallConfig("mru")
	if _, _, err := newBenchCache(config, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestReporter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rep := newReporter(policyS3FIFO, &buf)

	var cnt counters
	cnt.total.Store(100)
	cnt.reads.Store(80)
	cnt.hits.Store(40)

	s := rep.observe(&cnt, time.Second)
	if s.ops != 100 || s.reads != 80 || s.hits != 40 {
		t.Fatalf("first sample: %+v", s)
	}
	if s.hitRate() != 0.5 || s.opsPerSec() != 100 {
		t.Fatalf("rates: hit=%v ops=%v", s.hitRate(), s.opsPerSec())
	}

	cnt.total.Store(150)
	cnt.reads.Store(100)
	cnt.hits.Store(60)
	s = rep.observe(&cnt, time.Second)
	if s.ops != 50 || s.reads != 20 || s.hits != 20 {
		t.Fatalf("second sample is not a delta: %+v", s)
	}

	if err := rep.write(time.Unix(0, 0), s, 7); err != nil {
		t.Fatal(err)
	}
	line := buf.String()
	for _, want := range []string{"policy=s3fifo", "hit=1.0000", "len=7"} {
		if !strings.Contains(line, want) {
			t.Fatalf("report line %q missing %q", line, want)
		}
	}
}

func TestReporterRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rep := newReporter(policyLRU, &buf)
	config := smallConfig(policyLRU)
	c, closeCache, err := newBenchCache(config, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer closeCache()

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	var cnt counters
	if err := rep.run(ctx, 10*time.Millisecond, c, &cnt); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Fatal("reporter wrote nothing")
	}
}

func TestStatsLogWriter(t *testing.T) {
	t.Parallel()
	if w := statsLogWriter(StatsLogConfig{}); w != nil {
		t.Fatal("expected nil writer when disabled")
	}
	w := statsLogWriter(StatsLogConfig{File: t.TempDir() + "/stats.log", MaxSize: 1})
	if w == nil {
		t.Fatal("expected writer")
	}
	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRun_ClosesStatsLogAndReportsSummary(t *testing.T) {
	t.Parallel()
	config := smallConfig(policyS3FIFO)
	config.MetricsAddr = ""
	config.Duration.Duration = 60 * time.Millisecond
	config.StatsLog.File = filepath.Join(t.TempDir(), "stats.log")
	if err := config.validate(); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if code := run(config, &stdout); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout.String(), "policy=s3fifo") || !strings.Contains(stdout.String(), "promotions=") {
		t.Fatalf("summary missing: %q", stdout.String())
	}
	// The deferred Close ran, so the interval lines are on disk.
	data, err := os.ReadFile(config.StatsLog.File)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hit_ewma=") {
		t.Fatalf("stats log has no report lines: %q", data)
	}
}

func TestRun_FailureReturnsExitCode(t *testing.T) {
	t.Parallel()
	config := smallConfig("mru")
	config.MetricsAddr = ""
	var stdout bytes.Buffer
	if code := run(config, &stdout); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("no summary expected on failure, got %q", stdout.String())
	}
}
