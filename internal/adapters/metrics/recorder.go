// Package metrics records cache activity with Prometheus collectors.
package metrics

import (
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*Recorder)(nil)

const (
	namespace = "hotspot"

	runsTotalName = namespace + "_runs_total"

	tierLabelJIT       = "jit"
	tierLabelOptimized = "optimized"
)

// Recorder publishes Prometheus metrics for cache runs and store operations.
type Recorder struct {
	registry *prometheus.Registry

	runs       *prometheus.CounterVec
	runLatency *prometheus.HistogramVec
	storeOps   *prometheus.CounterVec
}

// Snapshot summarizes the runs recorded so far.
type Snapshot struct {
	Executed    int
	Optimized   int
	Failed      int
	StoreErrors int
}

// Total returns the number of runs in the snapshot.
func (s Snapshot) Total() int {
	return s.Executed + s.Optimized + s.Failed
}

// NewRecorder constructs a Recorder. When reg is nil a dedicated registry is created
// so multiple recorders can coexist without touching the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Code unit runs handled by the cache.",
	}, []string{"tier", "outcome"})

	runLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Latency distribution for code unit runs.",
		Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"tier", "outcome"})

	storeOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Persistent store operations executed by the cache.",
	}, []string{"operation", "result"})

	reg.MustRegister(runs, runLatency, storeOps)

	return &Recorder{
		registry:   reg,
		runs:       runs,
		runLatency: runLatency,
		storeOps:   storeOps,
	}
}

// ObserveRun records the tier, outcome and latency of one run.
func (r *Recorder) ObserveRun(tier domain.Tier, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	tierLabel := tierToLabel(tier)
	outcomeLabel := normalizeLabel(outcome)
	r.runs.WithLabelValues(tierLabel, outcomeLabel).Inc()
	r.runLatency.WithLabelValues(tierLabel, outcomeLabel).Observe(elapsed.Seconds())
}

// ObserveStore records the result of a store operation.
func (r *Recorder) ObserveStore(operation, outcome string) {
	if r == nil {
		return
	}
	r.storeOps.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// Gatherer returns the underlying Prometheus gatherer.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// Snapshot gathers the current counters into a summary.
func (r *Recorder) Snapshot() (Snapshot, error) {
	var snap Snapshot

	families, err := r.Gatherer().Gather()
	if err != nil {
		return snap, zerr.Wrap(err, "failed to gather metrics")
	}

	for _, family := range families {
		switch family.GetName() {
		case runsTotalName:
			for _, m := range family.GetMetric() {
				labels := labelMap(m)
				n := int(m.GetCounter().GetValue())
				switch {
				case labels["outcome"] != ports.OutcomeSuccess:
					snap.Failed += n
				case labels["tier"] == tierLabelOptimized:
					snap.Optimized += n
				default:
					snap.Executed += n
				}
			}
		case namespace + "_store_operations_total":
			for _, m := range family.GetMetric() {
				if labelMap(m)["result"] == ports.StoreResultError {
					snap.StoreErrors += int(m.GetCounter().GetValue())
				}
			}
		}
	}
	return snap, nil
}

// WriteText writes every metric family in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.Gatherer().Gather()
	if err != nil {
		return zerr.Wrap(err, "failed to gather metrics")
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return zerr.Wrap(err, "failed to write metrics")
		}
	}
	return nil
}

func labelMap(m *dto.Metric) map[string]string {
	labels := make(map[string]string, len(m.GetLabel()))
	for _, pair := range m.GetLabel() {
		labels[pair.GetName()] = pair.GetValue()
	}
	return labels
}

func tierToLabel(tier domain.Tier) string {
	switch tier {
	case domain.TierOptimized:
		return tierLabelOptimized
	case domain.TierJIT:
		return tierLabelJIT
	default:
		return normalizeLabel(string(tier))
	}
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
