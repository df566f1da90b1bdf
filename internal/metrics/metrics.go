// Package metrics holds the Prometheus collectors for question generation
// and session outcomes.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the engine's collectors. A nil *Metrics records nothing.
type Metrics struct {
	GenerationRequests *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	AnswersGraded      *prometheus.CounterVec
	SessionsCompleted  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GenerationRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nexthire",
				Name:      "generation_requests_total",
				Help:      "Question generation calls by operation and outcome kind",
			},
			[]string{"op", "result"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "nexthire",
				Name:      "generation_duration_seconds",
				Help:      "Duration of question generation calls",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"op"},
		),
		AnswersGraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nexthire",
				Name:      "answers_graded_total",
				Help:      "Graded answers by session mode and correctness",
			},
			[]string{"mode", "correct"},
		),
		SessionsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nexthire",
				Name:      "sessions_completed_total",
				Help:      "Completed sessions by mode",
			},
			[]string{"mode"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.GenerationRequests, m.GenerationDuration, m.AnswersGraded, m.SessionsCompleted)
	}
	return m
}

// ObserveGeneration records one generation call.
func (m *Metrics) ObserveGeneration(op, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.GenerationRequests.WithLabelValues(op, result).Inc()
	m.GenerationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveAnswer records one graded answer.
func (m *Metrics) ObserveAnswer(mode string, correct bool) {
	if m == nil {
		return
	}
	label := "false"
	if correct {
		label = "true"
	}
	m.AnswersGraded.WithLabelValues(mode, label).Inc()
}

// ObserveCompletion records one completed session.
func (m *Metrics) ObserveCompletion(mode string) {
	if m == nil {
		return
	}
	m.SessionsCompleted.WithLabelValues(mode).Inc()
}

// Serve exposes g on addr at /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
