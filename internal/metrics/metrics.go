package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimizer_runs_total",
			Help: "Completed optimization runs per building.",
		},
		[]string{"building_id"},
	)

	RunErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimizer_run_errors_total",
			Help: "Failed pipeline stages per building.",
		},
		[]string{"building_id", "stage"},
	)

	RealizedSavingsKWh = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "optimizer_realized_savings_kwh",
			Help: "Realized savings of the most recent run.",
		},
		[]string{"building_id"},
	)

	BaselineKW = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "optimizer_baseline_kw",
			Help: "Simulated baseline consumption of the most recent run.",
		},
		[]string{"building_id"},
	)

	BestWindowScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "optimizer_best_window_score",
			Help: "Composite score of the current best window.",
		},
		[]string{"building_id"},
	)

	CycleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optimizer_cycle_duration_seconds",
			Help:    "Wall time of one full pipeline cycle.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"building_id"},
	)

	FeedBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "optimizer_feed_breaker_state",
			Help: "Forecast feed breaker state: 0 closed, 1 open, 2 half-open.",
		},
		[]string{"feed"},
	)
)

var registerOnce sync.Once

// Register installs all collectors on the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RunsTotal,
			RunErrors,
			RealizedSavingsKWh,
			BaselineKW,
			BestWindowScore,
			CycleDuration,
			FeedBreakerState,
		)
	})
}

// Handler serves the scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
