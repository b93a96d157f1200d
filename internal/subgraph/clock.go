package subgraph

import "time"

// Clock abstracts wall-clock time for historical window resolution.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
func SystemClock() Clock { return systemClock{} }

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// FixedClock always reports t.
func FixedClock(t time.Time) Clock { return fixedClock(t) }

// Lookback resolves the unix timestamp a historical snapshot is pinned to.
// When Pinned is non-zero it is returned as-is, which makes runs
// reproducible without touching the clock.
type Lookback struct {
	Clock  Clock
	Window time.Duration
	Pinned int64
}

// DefaultWindow is the trailing window of reported volumes.
const DefaultWindow = 24 * time.Hour

// Target returns now minus the window in whole seconds.
func (l Lookback) Target() int64 {
	if l.Pinned != 0 {
		return l.Pinned
	}

	clock := l.Clock
	if clock == nil {
		clock = SystemClock()
	}

	window := l.Window
	if window <= 0 {
		window = DefaultWindow
	}

	return clock.Now().Round(time.Second).Unix() - int64(window/time.Second)
}
