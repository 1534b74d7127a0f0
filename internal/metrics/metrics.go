// Package metrics exports run progress as Prometheus metrics.
//
// [Metrics] implements the observability hooks, so registering it is all a
// run needs to be instrumented:
//
//	m := metrics.New()
//	m.Register()
//	go m.Serve(ctx, ":9090", logger)
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/stackmotion/pkg/observability"
)

const namespace = "stackmotion"

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	transitions     *prometheus.CounterVec
	transitionTime  prometheus.Histogram
	inFlight        prometheus.Gauge
	checkpoints     *prometheus.CounterVec
	infeasible      prometheus.Counter
	frames          *prometheus.CounterVec
	frameRenderTime prometheus.Histogram
}

// New creates collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Transitions processed, by final status.",
		}, []string{"status"}),
		transitionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Wall time per transition.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transitions_in_flight",
			Help:      "Transitions currently being processed.",
		}),
		checkpoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoints_total",
			Help:      "Checkpoints resolved, by source (loaded or written).",
		}, []string{"source"}),
		infeasible: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "infeasible_attempts_total",
			Help:      "Synthesis attempts discarded as physically infeasible.",
		}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames handled, by outcome (rendered or skipped).",
		}, []string{"outcome"}),
		frameRenderTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_render_seconds",
			Help:      "Renderer wall time per frame.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.transitions, m.transitionTime, m.inFlight,
		m.checkpoints, m.infeasible,
		m.frames, m.frameRenderTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Register installs m as the process-wide observability hooks.
func (m *Metrics) Register() {
	observability.SetTransitionHooks(m)
	observability.SetFrameHooks(m)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return r
}

// Serve exposes Handler on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// observability.TransitionHooks
// =============================================================================

func (m *Metrics) OnTransitionStart(context.Context, int) {
	m.inFlight.Inc()
}

func (m *Metrics) OnTransitionComplete(_ context.Context, _ int, status string, d time.Duration, _ error) {
	m.inFlight.Dec()
	m.transitions.WithLabelValues(status).Inc()
	m.transitionTime.Observe(d.Seconds())
}

func (m *Metrics) OnCheckpointLoaded(context.Context, int) {
	m.checkpoints.WithLabelValues("loaded").Inc()
}

func (m *Metrics) OnCheckpointWritten(context.Context, int, int) {
	m.checkpoints.WithLabelValues("written").Inc()
}

func (m *Metrics) OnInfeasible(context.Context, int, int, string) {
	m.infeasible.Inc()
}

// =============================================================================
// observability.FrameHooks
// =============================================================================

func (m *Metrics) OnFrameRendered(_ context.Context, _, _ int, d time.Duration) {
	m.frames.WithLabelValues("rendered").Inc()
	m.frameRenderTime.Observe(d.Seconds())
}

func (m *Metrics) OnFrameSkipped(context.Context, int, int) {
	m.frames.WithLabelValues("skipped").Inc()
}

var (
	_ observability.TransitionHooks = (*Metrics)(nil)
	_ observability.FrameHooks      = (*Metrics)(nil)
)
