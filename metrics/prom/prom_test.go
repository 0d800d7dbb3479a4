package prom

import (
	"testing"

	"github.com/IvanBrykalov/s3fifo/cache"
	"github.com/IvanBrykalov/s3fifo/policy/s3fifo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAdapter_CountsCacheTraffic(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg, "s3fifo", "test", prometheus.Labels{"app": "unit"})

	c := cache.New[string, int](cache.Options[string, int]{
		Shards:  1,
		Engine:  &s3fifo.Config{SmallSize: 1, SmallMinSize: 1, SmallMaxSize: 1, MainSize: 4},
		Metrics: m,
	})
	t.Cleanup(func() { _ = c.Close() })

	c.Set("a", 1)
	c.Get("a")    // hit
	c.Get("b")    // miss
	c.Set("b", 2) // a (freq 1) is demoted

	if got := testutil.ToFloat64(m.hits); got != 1 {
		t.Fatalf("hits want 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.misses); got != 1 {
		t.Fatalf("misses want 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.inserts); got != 2 {
		t.Fatalf("inserts want 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.evicts.WithLabelValues("demoted")); got != 1 {
		t.Fatalf("demoted evictions want 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.resident); got != float64(c.Len()) {
		t.Fatalf("resident gauge %v disagrees with Len %d", got, c.Len())
	}
	if got := testutil.ToFloat64(m.smallCap); got != 1 {
		t.Fatalf("small capacity want 1, got %v", got)
	}

	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("registry must expose the adapter's metrics")
	}
}

func TestAdapter_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg, "s3fifo", "dup", nil)
	defer func() {
		if recover() == nil {
			t.Fatal("registering the same metrics twice must panic")
		}
	}()
	New(reg, "s3fifo", "dup", nil)
}
