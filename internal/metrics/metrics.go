// Package metrics provides Prometheus metrics for preview and search activity.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	previewOpensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpeek_preview_opens_total",
			Help: "Total number of previews opened, by strategy",
		},
		[]string{"strategy"},
	)

	previewLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpeek_preview_loads_total",
			Help: "Total number of completed preview content loads",
		},
		[]string{"strategy", "outcome"},
	)

	previewLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpeek_preview_load_duration_seconds",
			Help:    "Time to fetch and materialize preview content",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	previewStaleTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpeek_preview_stale_results_total",
			Help: "Preview results discarded because a newer file was opened",
		},
	)

	searchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpeek_search_requests_total",
			Help: "Total number of search requests issued",
		},
		[]string{"outcome"},
	)

	searchStaleTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpeek_search_stale_results_total",
			Help: "Search results discarded because the query moved on",
		},
	)
)

// RecordPreviewOpen counts a preview open for strategy.
func RecordPreviewOpen(strategy string) {
	previewOpensTotal.WithLabelValues(strategy).Inc()
}

// RecordPreviewLoad records a finished content load.
func RecordPreviewLoad(strategy string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	previewLoadsTotal.WithLabelValues(strategy, outcome).Inc()
	previewLoadDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// RecordPreviewStale counts a discarded preview result.
func RecordPreviewStale() {
	previewStaleTotal.Inc()
}

// RecordSearch records an issued search request.
func RecordSearch(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	searchRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordSearchStale counts a discarded search result.
func RecordSearchStale() {
	searchStaleTotal.Inc()
}

// Handler returns the Prometheus metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
