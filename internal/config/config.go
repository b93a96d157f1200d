package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"tickerhub/internal/driver"
	internalerrors "tickerhub/internal/errors"
	"tickerhub/pkg/exception"
)

const (
	defaultTimeout         = 15 * time.Second
	defaultRetries         = 2
	defaultWorkers         = 4
	defaultInterval        = time.Minute
	defaultRedisTTL        = 2 * time.Minute
	defaultProfilingServer = "http://localhost:4040"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Drivers                []DriverConfig  `json:"drivers"`
	Request                RequestConfig   `json:"request"`
	Collector              CollectorConfig `json:"collector"`
	DeterministicTimestamp int64           `json:"deterministicTimestamp"`
	Postgres               PostgresConfig  `json:"postgres"`
	Redis                  RedisConfig     `json:"redis"`
	Profiling              ProfilingConfig `json:"profiling"`
}

// DriverConfig describes one driver entry.
type DriverConfig struct {
	Name    string   `json:"name"`
	Markets []string `json:"markets"`
	Enabled *bool    `json:"enabled"`
}

// RequestConfig tunes the shared request client.
type RequestConfig struct {
	TimeoutMs int64 `json:"timeoutMs"`
	Retries   *int  `json:"retries"`
}

// CollectorConfig tunes the polling loop.
type CollectorConfig struct {
	Workers    int   `json:"workers"`
	IntervalMs int64 `json:"intervalMs"`
}

// PostgresConfig is the snapshot store connection. An empty host and
// ConnString disables persistence.
type PostgresConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	User       string `json:"user"`
	Password   string `json:"password"`
	Database   string `json:"database"`
	SSLMode    string `json:"sslMode"`
	ConnString string `json:"connString"`
}

// RedisConfig is the latest snapshot cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	TTLMs    int64  `json:"ttlMs"`
}

// ProfilingConfig captures the optional pyroscope profiler.
type ProfilingConfig struct {
	Enabled       *bool  `json:"enabled"`
	ServerAddress string `json:"serverAddress"`
}

// Driver is a resolved, enabled driver entry.
type Driver struct {
	Name   string
	Config driver.Config
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Drivers                []Driver
	Timeout                time.Duration
	Retries                int
	Workers                int
	Interval               time.Duration
	DeterministicTimestamp int64
	Postgres               PostgresConfig
	Redis                  RedisConfig
	RedisTTL               time.Duration
	Profiling              Profiling
}

// Profiling is the resolved profiler flag.
type Profiling struct {
	Enabled       bool
	ServerAddress string
}

// Known reports whether a driver name exists.
type Known func(name string) bool

// Load reads a JSON config file and resolves it.
func Load(path string, known Known) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "read config")
	}

	return Parse(data, known)
}

// Parse resolves a JSON config. Unknown keys are ignored.
func Parse(data []byte, known Known) (Loaded, error) {
	var cfg FileConfig
	if err := sonic.ConfigStd.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, internalerrors.Mark(exception.ErrInvalidConfig, err, "decode config")
	}

	return Resolve(cfg, known)
}

// Resolve applies defaults and validates a decoded config.
func Resolve(cfg FileConfig, known Known) (Loaded, error) {
	drivers, err := resolveDrivers(cfg.Drivers, known)
	if err != nil {
		return Loaded{}, err
	}

	if cfg.Request.TimeoutMs < 0 || cfg.Collector.IntervalMs < 0 || cfg.Redis.TTLMs < 0 {
		return Loaded{}, internalerrors.Mark(exception.ErrInvalidConfig, nil, "durations must be >= 0")
	}
	if cfg.Collector.Workers < 0 {
		return Loaded{}, internalerrors.Mark(exception.ErrInvalidConfig, nil, "collector workers must be >= 0")
	}

	retries := defaultRetries
	if cfg.Request.Retries != nil {
		if *cfg.Request.Retries < 0 {
			return Loaded{}, internalerrors.Mark(exception.ErrInvalidConfig, nil, "request retries must be >= 0")
		}
		retries = *cfg.Request.Retries
	}

	return Loaded{
		Drivers:                drivers,
		Timeout:                millisOr(cfg.Request.TimeoutMs, defaultTimeout),
		Retries:                retries,
		Workers:                intOr(cfg.Collector.Workers, defaultWorkers),
		Interval:               millisOr(cfg.Collector.IntervalMs, defaultInterval),
		DeterministicTimestamp: cfg.DeterministicTimestamp,
		Postgres:               cfg.Postgres,
		Redis:                  cfg.Redis,
		RedisTTL:               millisOr(cfg.Redis.TTLMs, defaultRedisTTL),
		Profiling:              resolveProfiling(cfg.Profiling),
	}, nil
}

func resolveDrivers(entries []DriverConfig, known Known) ([]Driver, error) {
	seen := make(map[string]struct{}, len(entries))
	drivers := make([]Driver, 0, len(entries))
	for _, entry := range entries {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		if name == "" {
			return nil, internalerrors.Mark(exception.ErrInvalidConfig, nil, "driver name is empty")
		}
		if known != nil && !known(name) {
			return nil, internalerrors.Mark(exception.ErrInvalidConfig, exception.ErrUnknownDriver, strconv.Quote(entry.Name))
		}
		if _, ok := seen[name]; ok {
			return nil, internalerrors.Mark(exception.ErrInvalidConfig, exception.ErrDuplicateDriver, strconv.Quote(entry.Name))
		}
		seen[name] = struct{}{}

		if entry.Enabled != nil && !*entry.Enabled {
			continue
		}

		drivers = append(drivers, Driver{
			Name:   name,
			Config: driver.Config{Markets: append([]string(nil), entry.Markets...)},
		})
	}
	return drivers, nil
}

func resolveProfiling(cfg ProfilingConfig) Profiling {
	p := Profiling{ServerAddress: cfg.ServerAddress}
	if cfg.Enabled != nil {
		p.Enabled = *cfg.Enabled
	}
	if p.ServerAddress == "" {
		p.ServerAddress = defaultProfilingServer
	}
	return p
}

func millisOr(ms int64, fallback time.Duration) time.Duration {
	if ms == 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func intOr(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

const (
	EnvPostgresDSN = "TICKERHUB_POSTGRES_DSN"
	EnvRedisAddr   = "TICKERHUB_REDIS_ADDR"
)

// ApplyEnv overrides connection settings from the environment. lookup is
// usually os.LookupEnv.
func (l *Loaded) ApplyEnv(lookup func(key string) (string, bool)) {
	if v, ok := lookup(EnvPostgresDSN); ok && v != "" {
		l.Postgres.ConnString = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		l.Redis.Addr = v
	}
}

// PostgresEnabled reports whether snapshots should be persisted.
func (l Loaded) PostgresEnabled() bool {
	return l.Postgres.ConnString != "" || l.Postgres.Host != ""
}

// RedisEnabled reports whether the latest snapshot cache is used.
func (l Loaded) RedisEnabled() bool {
	return l.Redis.Addr != ""
}
