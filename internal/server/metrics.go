package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/siteplan/pkg/errors"
	"github.com/matzehuels/siteplan/pkg/observability"
)

const namespace = "siteplan"

// Metrics collects Prometheus metrics from the observability hooks. Each
// instance owns its registry, so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	runEnergy     prometheus.Histogram
	violations    prometheus.Counter
	renders       *prometheus.CounterVec
	renderLatency prometheus.Histogram
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

var (
	_ observability.RunHooks    = (*Metrics)(nil)
	_ observability.RenderHooks = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Annealing runs by outcome.",
		}, []string{"status"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one annealing run.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		runEnergy: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_energy",
			Help:      "Best energy reached by completed runs.",
			Buckets:   []float64{-1000, -500, -250, 0, 500, 1000, 5000, 10000, 50000},
		}),
		violations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Violations remaining in completed layouts.",
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Render calls by status.",
		}, []string{"status"}),
		renderLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering artifacts.",
			Buckets:   prometheus.DefBuckets,
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs m as the process-wide run, render and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetRunHooks(m)
	observability.SetRenderHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OnRunStart(context.Context, string, uint64, int) {}

func (m *Metrics) OnRunComplete(_ context.Context, _ string, out observability.RunOutcome, err error) {
	m.runDuration.Observe(out.Duration.Seconds())
	if err != nil {
		m.runs.WithLabelValues(status(err)).Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	m.runEnergy.Observe(out.Energy)
	m.violations.Add(float64(out.Violations))
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.renders.WithLabelValues(status(err)).Inc()
	m.renderLatency.Observe(d.Seconds())
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}
