package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/joho/godotenv"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"tickerhub/internal/collector"
	"tickerhub/internal/config"
	"tickerhub/internal/driver"
	"tickerhub/internal/obs"
	"tickerhub/internal/registry"
	"tickerhub/internal/subgraph"
)

type options struct {
	list       bool
	driverName string
	markets    string
	configPath string
	envPath    string
	watch      bool
	interval   time.Duration
	recordDir  string
	replayDir  string
}

func main() {
	if err := run(); err != nil {
		logs.Errorf("tickers: %+v", err)
		os.Exit(1)
	}
}

func run() error {
	var opt options
	flag.BoolVar(&opt.list, "list", false, "list available drivers and exit")
	flag.StringVar(&opt.driverName, "driver", "", "driver to run once")
	flag.StringVar(&opt.markets, "markets", "", "comma separated markets for -driver")
	flag.StringVar(&opt.configPath, "config", "", "JSON config file")
	flag.StringVar(&opt.envPath, "env", ".env", "dotenv file, ignored when missing")
	flag.BoolVar(&opt.watch, "watch", false, "keep collecting until interrupted")
	flag.DurationVar(&opt.interval, "interval", 0, "collect interval in watch mode, overrides the config")
	flag.StringVar(&opt.recordDir, "record", "", "record every payload as a fixture into dir")
	flag.StringVar(&opt.replayDir, "replay", "", "serve payloads from fixtures in dir instead of the network")
	flag.Parse()

	if err := loadEnv(opt.envPath); err != nil {
		return err
	}

	if opt.list {
		return printNames(os.Stdout, registry.Default().Names())
	}

	loaded, err := loadConfig(opt, registry.Default().Has)
	if err != nil {
		return err
	}
	loaded.ApplyEnv(os.LookupEnv)
	if opt.interval > 0 {
		loaded.Interval = opt.interval
	}

	if loaded.Profiling.Enabled {
		stop, err := startProfiler(loaded.Profiling.ServerAddress)
		if err != nil {
			return err
		}
		defer stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-sys.Shutdown():
			logs.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	client, err := buildClient(loaded, opt.recordDir, opt.replayDir)
	if err != nil {
		return err
	}

	reg := registry.DefaultWithLookback(subgraph.Lookback{Pinned: loaded.DeterministicTimestamp})
	drivers := make([]driver.Driver, 0, len(loaded.Drivers))
	for _, d := range loaded.Drivers {
		drv, err := reg.New(d.Name, client, d.Config)
		if err != nil {
			return err
		}
		drivers = append(drivers, drv)
	}

	metrics := obs.NewMetrics()
	defer logMetrics(metrics)

	c := collector.New(loaded.Workers, metrics, drivers...)
	if !opt.watch {
		results := c.Collect(ctx)
		if err := printResults(os.Stdout, results); err != nil {
			return err
		}
		return errors.Join(collector.Failed(results)...)
	}

	sink, closeSink, err := buildSink(ctx, loaded, os.Stdout)
	if err != nil {
		return err
	}
	defer closeSink()

	logs.Infof("collecting %v every %s", c.Drivers(), loaded.Interval)
	return c.Run(ctx, loaded.Interval, sink)
}

func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env %s: %w", path, err)
	}
	return nil
}

// loadConfig reads -config, or builds a single driver config from -driver
// and -markets.
func loadConfig(opt options, known config.Known) (config.Loaded, error) {
	if opt.configPath != "" {
		return config.Load(opt.configPath, known)
	}

	name := strings.TrimSpace(opt.driverName)
	if name == "" {
		return config.Loaded{}, errors.New("missing driver; use -driver, -config or -list")
	}

	return config.Resolve(config.FileConfig{
		Drivers: []config.DriverConfig{{Name: name, Markets: splitMarkets(opt.markets)}},
	}, known)
}

func splitMarkets(raw string) []string {
	var markets []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			markets = append(markets, m)
		}
	}
	return markets
}

func startProfiler(serverAddress string) (func(), error) {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "tickerhub",
		ServerAddress:   serverAddress,
		Logger:          emptyLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pyroscope start failed: %w", err)
	}

	return func() { _ = profiler.Stop() }, nil
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}

func logMetrics(metrics *obs.Metrics) {
	for _, s := range metrics.Snapshot() {
		logs.Infof("%s: ok %d, failed %d, tickers %d, latency avg %s max %s",
			s.Driver, s.Successes, s.Failures, s.Tickers, s.Latency.Avg, s.Latency.Max)
	}
}
