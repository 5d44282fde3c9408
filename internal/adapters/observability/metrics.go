package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"wanderplan/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wanderplan", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wanderplan", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ModelRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wanderplan", Name: "model_requests_total", Help: "Outbound model calls by result."},
		[]string{"provider", "result"}, // result: ok | <failure kind>
	)
	ModelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wanderplan", Name: "model_request_duration_seconds",
			Help:    "Outbound model call duration seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"provider"},
	)
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wanderplan", Name: "generations_total", Help: "Completed generations by source and failure."},
		[]string{"source", "failure"},
	)
	AdmissionEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "wanderplan", Name: "model_admission_events_total", Help: "Model call admission decisions."},
		[]string{"guard", "event"}, // event: admitted|rejected|error
	)
)

// Serve exposes reg on its own listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ModelRequests, ModelLatency, Generations, AdmissionEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveModel(provider string, err error, dur time.Duration) {
	ModelRequests.WithLabelValues(provider, LabelErr(err)).Inc()
	ModelLatency.WithLabelValues(provider).Observe(dur.Seconds())
}

func ObserveAdmission(guard, event string) {
	AdmissionEvents.WithLabelValues(guard, event).Inc()
}

// LabelErr turns a model error into a bounded label value.
func LabelErr(err error) string {
	if err == nil {
		return "ok"
	}
	if k := domain.KindOf(err); k != domain.FailureNone {
		return string(k)
	}
	return "other"
}

// OutcomeMetrics counts every generation outcome.
type OutcomeMetrics struct{}

func (OutcomeMetrics) RecordOutcome(_ context.Context, o domain.Outcome) error {
	failure := string(o.Failure)
	if failure == "" {
		failure = "none"
	}
	Generations.WithLabelValues(string(o.Source), failure).Inc()
	return nil
}

// InstrumentedModel times every call to the wrapped client.
type InstrumentedModel struct {
	Next domain.ModelClient
}

func (m InstrumentedModel) Provider() string { return m.Next.Provider() }

func (m InstrumentedModel) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := m.Next.Complete(ctx, prompt)
	ObserveModel(m.Next.Provider(), err, time.Since(start))
	return out, err
}
