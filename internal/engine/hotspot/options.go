package hotspot

import (
	"time"

	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
)

// Option configures a Cache.
type Option func(*Cache)

// WithWarmupRuns sets how many executions a unit receives before cached output is served.
// Values below 1 fall back to domain.DefaultWarmupRuns.
func WithWarmupRuns(n int) Option {
	return func(c *Cache) {
		if n < 1 {
			n = domain.DefaultWarmupRuns
		}
		c.warmupRuns = n
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m ports.Metrics) Option {
	return func(c *Cache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock overrides the time source used for entry timestamps and run latencies.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveRun(domain.Tier, string, time.Duration) {}

func (noopMetrics) ObserveStore(string, string) {}
