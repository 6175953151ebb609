package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salarypredict/ml"
)

// LatencyStats 预测耗时统计（毫秒）
type LatencyStats struct {
	Count int64   `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
}

// Snapshot 指标快照
type Snapshot struct {
	Uptime      string                 `json:"uptime"`
	Predictions int64                  `json:"predictions"`
	Failures    int64                  `json:"failures"`
	Outcomes    map[ml.Outcome]int64   `json:"outcomes"`
	Latency     LatencyStats           `json:"latency"`
	System      map[string]interface{} `json:"system"`
}

// Collector counts prediction runs. It is an ml.HistorySink and exports
// the counters both as a JSON snapshot and on its own Prometheus registry.
type Collector struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	failures prometheus.Counter
	duration prometheus.Histogram

	mu         sync.RWMutex
	outcomes   map[ml.Outcome]int64
	total      int64
	failed     int64
	latency    LatencyStats
	latencySum float64

	startTime time.Time
}

// NewCollector 创建指标收集器
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salary_predictions_total",
				Help: "Successful predictions per income bracket",
			},
			[]string{"outcome"},
		),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salary_prediction_failures_total",
			Help: "Prediction runs that ended in an error",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "salary_prediction_duration_seconds",
			Help:    "Duration of a prediction run in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		outcomes:  make(map[ml.Outcome]int64),
		startTime: time.Now(),
	}
	c.registry.MustRegister(
		c.runs,
		c.failures,
		c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, outcome := range []ml.Outcome{ml.OutcomeAbove50K, ml.OutcomeAtMost50K} {
		c.runs.WithLabelValues(string(outcome))
	}
	return c
}

// Record counts one prediction run.
func (c *Collector) Record(ctx context.Context, entry ml.HistoryEntry) error {
	c.duration.Observe(entry.Latency.Seconds())
	if entry.Failed {
		c.failures.Inc()
	} else {
		c.runs.WithLabelValues(string(entry.Outcome)).Inc()
	}

	ms := float64(entry.Latency) / float64(time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	if entry.Failed {
		c.failed++
	} else {
		c.outcomes[entry.Outcome]++
	}
	if c.latency.Count == 0 || ms < c.latency.MinMs {
		c.latency.MinMs = ms
	}
	if ms > c.latency.MaxMs {
		c.latency.MaxMs = ms
	}
	c.latency.Count++
	c.latencySum += ms
	c.latency.AvgMs = c.latencySum / float64(c.latency.Count)
	return nil
}

// Uptime 获取运行时间
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// Snapshot returns a copy of the current counters plus runtime stats.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	outcomes := make(map[ml.Outcome]int64, len(c.outcomes))
	for k, v := range c.outcomes {
		outcomes[k] = v
	}
	return Snapshot{
		Uptime:      c.Uptime().Round(time.Second).String(),
		Predictions: c.total,
		Failures:    c.failed,
		Outcomes:    outcomes,
		Latency:     c.latency,
		System:      SystemStats(),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// SystemStats 获取系统统计
func SystemStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"goroutines": runtime.NumGoroutine(),
		"memory": map[string]interface{}{
			"alloc":       m.Alloc,
			"sys":         m.Sys,
			"heap_alloc":  m.HeapAlloc,
			"heap_inuse":  m.HeapInuse,
			"gc_count":    m.NumGC,
			"gc_pause_ns": m.PauseTotalNs,
		},
		"num_cpu": runtime.NumCPU(),
	}
}
