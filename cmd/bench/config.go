package main

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

// duration decodes TOML strings such as "10s" or "250ms".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// StatsLogConfig - Rotated file receiving one line per report interval
type StatsLogConfig struct {
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"` // megabytes
	MaxAge     int    `toml:"max_age"`  // days
	MaxBackups int    `toml:"max_backups"`
}

// Config - Benchmark settings; flags override values read from the file
type Config struct {
	Policy   string   `toml:"policy"`
	Capacity int      `toml:"capacity"`
	Shards   int      `toml:"shards"`
	Workers  int      `toml:"workers"`
	Duration duration `toml:"duration"`
	ReadPct  int      `toml:"read_pct"`

	Keys    int     `toml:"keys"`
	ZipfS   float64 `toml:"zipf_s"`
	ZipfV   float64 `toml:"zipf_v"`
	Seed    int64   `toml:"seed"`
	Preload int     `toml:"preload"`

	MetricsAddr    string         `toml:"metrics_addr"`
	PprofAddr      string         `toml:"pprof_addr"`
	ReportInterval duration       `toml:"report_interval"`
	StatsLog       StatsLogConfig `toml:"stats_log"`
}

var (
	errUnknownPolicy = errors.New("unknown policy")
	errBadValue      = errors.New("invalid value")
)

func newConfig() Config {
	return Config{
		Policy:         "s3fifo",
		Capacity:       100_000,
		Workers:        2 * runtime.GOMAXPROCS(0),
		Duration:       duration{10 * time.Second},
		ReadPct:        80,
		Keys:           1_000_000,
		ZipfS:          1.1,
		ZipfV:          1.0,
		Seed:           time.Now().UnixNano(),
		MetricsAddr:    ":8080",
		ReportInterval: duration{time.Second},
		StatsLog: StatsLogConfig{
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 1,
		},
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	config := newConfig()
	if path == "" {
		return config, nil
	}
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return config, fmt.Errorf("config %s: unsupported key [%v]", path, undecoded[0])
	}
	return config, nil
}

func (config *Config) validate() error {
	switch config.Policy {
	case policyS3FIFO, policyLRU, policyARC:
	default:
		return fmt.Errorf("%w: %q (use %s, %s or %s)", errUnknownPolicy, config.Policy, policyS3FIFO, policyLRU, policyARC)
	}
	if config.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be > 0", errBadValue)
	}
	if config.Keys < 2 {
		return fmt.Errorf("%w: keys must be >= 2", errBadValue)
	}
	if config.ReadPct < 0 || config.ReadPct > 100 {
		return fmt.Errorf("%w: read_pct must be in [0, 100]", errBadValue)
	}
	if config.ZipfS <= 1 || config.ZipfV < 1 {
		return fmt.Errorf("%w: zipf requires s > 1 and v >= 1", errBadValue)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Preload == 0 {
		config.Preload = config.Capacity / 2
	}
	if config.ReportInterval.Duration <= 0 {
		config.ReportInterval.Duration = time.Second
	}
	return nil
}
