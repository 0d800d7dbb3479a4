// Command bench runs a synthetic Zipf workload against the S3-FIFO cache or
// an LRU/ARC baseline and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"time"

	"github.com/IvanBrykalov/s3fifo/cache"
	pmet "github.com/IvanBrykalov/s3fifo/metrics/prom"
	"github.com/jedisct1/dlog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// flags mirror Config; only the ones set on the command line override the file.
type flags struct {
	config *string

	policy   *string
	capacity *int
	shards   *int
	workers  *int
	duration *time.Duration
	readPct  *int

	keys    *int
	zipfS   *float64
	zipfV   *float64
	seed    *int64
	preload *int

	pprofAddr   *string
	metricsAddr *string
	interval    *time.Duration
	statsLog    *string
}

func defineFlags(fs *flag.FlagSet, d Config) *flags {
	return &flags{
		config: fs.String("config", "", "TOML configuration file"),

		policy:   fs.String("policy", d.Policy, "eviction policy: s3fifo | lru | arc"),
		capacity: fs.Int("cap", d.Capacity, "cache capacity (entries)"),
		shards:   fs.Int("shards", d.Shards, "number of shards, s3fifo only (0=auto)"),
		workers:  fs.Int("workers", d.Workers, "number of worker goroutines"),
		duration: fs.Duration("duration", d.Duration.Duration, "benchmark duration"),
		readPct:  fs.Int("reads", d.ReadPct, "read percentage [0..100]"),

		keys:    fs.Int("keys", d.Keys, "keyspace size"),
		zipfS:   fs.Float64("zipf_s", d.ZipfS, "Zipf s > 1 (skew)"),
		zipfV:   fs.Float64("zipf_v", d.ZipfV, "Zipf v"),
		seed:    fs.Int64("seed", d.Seed, "random seed"),
		preload: fs.Int("preload", d.Preload, "preload entries (0 = cap/2)"),

		pprofAddr:   fs.String("pprof", d.PprofAddr, "serve pprof at addr (e.g. :6060); empty = disabled"),
		metricsAddr: fs.String("http", d.MetricsAddr, "serve Prometheus metrics at addr; empty = disabled"),
		interval:    fs.Duration("interval", d.ReportInterval.Duration, "stats report interval"),
		statsLog:    fs.String("stats_log", d.StatsLog.File, "rotated stats log file; empty = stdout"),
	}
}

// apply copies the explicitly set flags over config.
func (f *flags) apply(fs *flag.FlagSet, config *Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "policy":
			config.Policy = *f.policy
		case "cap":
			config.Capacity = *f.capacity
		case "shards":
			config.Shards = *f.shards
		case "workers":
			config.Workers = *f.workers
		case "duration":
			config.Duration.Duration = *f.duration
		case "reads":
			config.ReadPct = *f.readPct
		case "keys":
			config.Keys = *f.keys
		case "zipf_s":
			config.ZipfS = *f.zipfS
		case "zipf_v":
			config.ZipfV = *f.zipfV
		case "seed":
			config.Seed = *f.seed
		case "preload":
			config.Preload = *f.preload
		case "pprof":
			config.PprofAddr = *f.pprofAddr
		case "http":
			config.MetricsAddr = *f.metricsAddr
		case "interval":
			config.ReportInterval.Duration = *f.interval
		case "stats_log":
			config.StatsLog.File = *f.statsLog
		}
	})
}

func serve(name, addr string) {
	dlog.Noticef("%s: serving at %s", name, addr)
	if err := http.ListenAndServe(addr, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
		dlog.Warnf("%s: %v", name, err)
	}
}

func main() {
	dlog.Init("s3fifo-bench", dlog.SeverityNotice, "DAEMON")

	f := defineFlags(flag.CommandLine, newConfig())
	flag.Parse()

	config, err := loadConfig(*f.config)
	if err != nil {
		dlog.Fatal(err)
	}
	f.apply(flag.CommandLine, &config)
	if err := config.validate(); err != nil {
		dlog.Fatal(err)
	}

	os.Exit(run(config, os.Stdout))
}

// run executes one benchmark and returns the process exit code. Failures are
// logged and reported through the code so deferred cleanup still runs.
func run(config Config, stdout io.Writer) int {
	if config.PprofAddr != "" {
		go serve("pprof", config.PprofAddr)
	}

	var metrics *pmet.Adapter
	if config.MetricsAddr != "" {
		metrics = pmet.New(nil, "s3fifo", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		go serve("metrics", config.MetricsAddr)
	}

	c, closeCache, err := newBenchCache(config, metrics)
	if err != nil {
		dlog.Error(err)
		return 1
	}
	defer closeCache()

	out := stdout
	if w := statsLogWriter(config.StatsLog); w != nil {
		defer w.Close()
		out = w
		dlog.Noticef("stats: writing to %s", config.StatsLog.File)
	}

	preload(c, config.Preload)
	dlog.Infof("preloaded %d entries, len=%d", config.Preload, c.Len())

	dlog.Noticef("policy=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d",
		config.Policy, config.Capacity, config.Shards, config.Workers, config.Keys, config.Duration.Duration, config.Seed)

	ctx, cancel := context.WithTimeout(context.Background(), config.Duration.Duration)
	defer cancel()

	var cnt counters
	rep := newReporter(config.Policy, out)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runWorkload(ctx, c, config, &cnt) })
	g.Go(func() error { return rep.run(ctx, config.ReportInterval.Duration, c, &cnt) })
	if err := g.Wait(); err != nil {
		dlog.Error(err)
		return 1
	}
	elapsed := time.Since(start)

	printSummary(stdout, config, c, &cnt, rep, elapsed)
	return 0
}

func printSummary(w io.Writer, config Config, c benchCache, cnt *counters, rep *reporter, elapsed time.Duration) {
	ops := cnt.total.Load()
	reads, writes := cnt.reads.Load(), cnt.writes.Load()
	hits, misses := cnt.hits.Load(), cnt.misses.Load()

	hitRate := 0.0
	if reads > 0 {
		hitRate = float64(hits) / float64(reads) * 100
	}

	fmt.Fprintf(w, "policy=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		config.Policy, config.Capacity, config.Shards, config.Workers, config.Keys, elapsed, config.Seed)
	fmt.Fprintf(w, "ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), reads, writes)
	fmt.Fprintf(w, "hits=%d  misses=%d  hit-rate=%.2f%%  hit-rate(ewma)=%.2f%%\n",
		hits, misses, hitRate, rep.hitRate.Value()*100)
	fmt.Fprintf(w, "Len()=%d\n", c.Len())

	if sc, ok := c.(cache.Cache[string, string]); ok {
		st := sc.Stats()
		fmt.Fprintf(w, "small=%d/%d main=%d/%d ghost=%d\n",
			st.SmallLen, st.SmallCap, st.MainLen, st.MainCap, st.GhostLen)
		fmt.Fprintf(w, "promotions=%d demotions=%d merges=%d ghost-hits=%d recycles=%d discards=%d grows=%d shrinks=%d\n",
			st.Promotions, st.Demotions, st.Merges, st.GhostHits, st.Recycles, st.Discards, st.SmallGrows, st.SmallShrinks)
	}
}
