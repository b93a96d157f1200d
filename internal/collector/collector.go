package collector

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/yanun0323/logs"
	"golang.org/x/sync/errgroup"

	"tickerhub/internal/driver"
	"tickerhub/internal/model"
	"tickerhub/internal/obs"
	"tickerhub/pkg/exception"
)

const defaultWorkers = 4

// Result is the outcome of one driver within a round. Err carries a
// *errors.DriverError naming the driver.
type Result struct {
	Driver  string
	Tickers []model.Ticker
	Err     error
	Elapsed time.Duration
}

// Sink receives every completed round.
type Sink interface {
	Save(ctx context.Context, results []Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, results []Result) error

func (fn SinkFunc) Save(ctx context.Context, results []Result) error {
	return fn(ctx, results)
}

// Collector fans a round of FetchTickers calls out over a bounded number of
// workers. A failing driver never drops the results of the others.
type Collector struct {
	drivers []driver.Driver
	worker  int
	metrics *obs.Metrics

	running atomic.Bool
}

func New(workerCount int, metrics *obs.Metrics, drivers ...driver.Driver) *Collector {
	if workerCount <= 0 {
		workerCount = defaultWorkers
	}

	return &Collector{
		drivers: append([]driver.Driver(nil), drivers...),
		worker:  workerCount,
		metrics: metrics,
	}
}

// Drivers returns the names of the collected drivers in run order.
func (c *Collector) Drivers() []string {
	names := make([]string, 0, len(c.drivers))
	for _, d := range c.drivers {
		names = append(names, d.Name())
	}
	return names
}

// Collect runs every driver once. Results keep the driver order.
func (c *Collector) Collect(ctx context.Context) []Result {
	results := make([]Result, len(c.drivers))

	var eg errgroup.Group
	eg.SetLimit(c.worker)
	for i, d := range c.drivers {
		eg.Go(func() error {
			results[i] = c.collectOne(ctx, d)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (c *Collector) collectOne(ctx context.Context, d driver.Driver) Result {
	start := time.Now()
	tickers, err := driver.Fetch(ctx, d)
	elapsed := time.Since(start)

	c.metrics.ObserveFetch(d.Name(), elapsed, len(tickers), err)
	if err != nil {
		logs.Errorf("collect %s failed after %s, err: %+v", d.Name(), elapsed, err)
	}

	return Result{
		Driver:  d.Name(),
		Tickers: tickers,
		Err:     err,
		Elapsed: elapsed,
	}
}

// Run collects immediately and then on every interval tick until ctx is
// done. Sink failures are logged and do not stop the loop.
func (c *Collector) Run(ctx context.Context, interval time.Duration, sink Sink) error {
	if interval <= 0 {
		return exception.ErrInvalidInterval
	}
	if c.running.Swap(true) {
		return exception.ErrCollectorRunning
	}
	defer c.running.Store(false)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.round(ctx, sink)

		select {
		case <-ctx.Done():
			logs.Info("collector stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Collector) round(ctx context.Context, sink Sink) {
	results := c.Collect(ctx)
	if ctx.Err() != nil || sink == nil {
		return
	}

	if err := sink.Save(ctx, results); err != nil {
		logs.Errorf("save round, err: %+v", err)
	}
}

// Tickers flattens the successful results of a round.
func Tickers(results []Result) []model.Ticker {
	var n int
	for _, r := range results {
		n += len(r.Tickers)
	}

	out := make([]model.Ticker, 0, n)
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Tickers...)
		}
	}
	return out
}

// Failed returns the errors of a round in driver order.
func Failed(results []Result) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Sinks fans a round out to every sink in order. All sinks run; their
// errors are joined.
func Sinks(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, results []Result) error {
		var errs []error
		for _, s := range sinks {
			if err := s.Save(ctx, results); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
