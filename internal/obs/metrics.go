package obs

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects lightweight per-driver fetch counters and latency stats.
// It is safe for concurrent use.
type Metrics struct {
	drivers sync.Map // name -> *driverStats
}

type driverStats struct {
	successes uint64
	failures  uint64
	tickers   uint64
	latency   LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// DriverSnapshot is a point-in-time view of one driver's fetches.
type DriverSnapshot struct {
	Driver    string
	Successes uint64
	Failures  uint64
	Tickers   uint64
	Latency   LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) stats(driver string) *driverStats {
	if s, ok := m.drivers.Load(driver); ok {
		return s.(*driverStats)
	}
	s, _ := m.drivers.LoadOrStore(driver, &driverStats{})
	return s.(*driverStats)
}

// ObserveFetch records the outcome of one FetchTickers call.
func (m *Metrics) ObserveFetch(driver string, d time.Duration, tickers int, err error) {
	if m == nil {
		return
	}
	s := m.stats(driver)
	if err != nil {
		atomic.AddUint64(&s.failures, 1)
	} else {
		atomic.AddUint64(&s.successes, 1)
		atomic.AddUint64(&s.tickers, uint64(tickers))
	}
	s.latency.Observe(d)
}

// Snapshot returns a copy of the current values ordered by driver name.
func (m *Metrics) Snapshot() []DriverSnapshot {
	if m == nil {
		return nil
	}
	var snaps []DriverSnapshot
	m.drivers.Range(func(key, value any) bool {
		s := value.(*driverStats)
		snaps = append(snaps, DriverSnapshot{
			Driver:    key.(string),
			Successes: atomic.LoadUint64(&s.successes),
			Failures:  atomic.LoadUint64(&s.failures),
			Tickers:   atomic.LoadUint64(&s.tickers),
			Latency:   s.latency.Snapshot(),
		})
		return true
	})
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Driver < snaps[j].Driver })
	return snaps
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
