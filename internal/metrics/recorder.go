// Package metrics owns the Prometheus collectors of the service. Labels are
// kept to bounded sets: outcomes, methods, statuses and registered routes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements the observation hooks used by the pipeline, the use
// cases, the event dispatcher and the HTTP layer.
type Recorder struct {
	registry *prometheus.Registry

	reconciles  *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	resolutions *prometheus.CounterVec
	renewals    prometheus.Counter
	transitions *prometheus.CounterVec
	deliveries  *prometheus.CounterVec

	httpReqs     *prometheus.CounterVec
	httpLat      *prometheus.HistogramVec
	httpInflight prometheus.Gauge
}

// New registers all collectors on a dedicated registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderdesk_reconcile_total",
			Help: "Reconciliation passes by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orderdesk_reconcile_duration_seconds",
			Help:    "Duration of reconciliation passes in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderdesk_client_resolutions_total",
			Help: "Client resolutions by method.",
		}, []string{"method"}),
		renewals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderdesk_renewals_applied_total",
			Help: "Orders completed from purchase history.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderdesk_order_transitions_total",
			Help: "Order lifecycle transitions by target status.",
		}, []string{"status"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderdesk_event_deliveries_total",
			Help: "Outbox event deliveries by result.",
		}, []string{"result"}),
		httpReqs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpLat: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.reconciles, r.latency, r.resolutions, r.renewals, r.transitions, r.deliveries,
		r.httpReqs, r.httpLat, r.httpInflight,
	)
	return r
}

func (r *Recorder) ObserveReconcile(outcome string, elapsed time.Duration) {
	r.reconciles.WithLabelValues(outcome).Inc()
	r.latency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveResolution(method string) {
	r.resolutions.WithLabelValues(method).Inc()
}

func (r *Recorder) ObserveRenewal() {
	r.renewals.Inc()
}

func (r *Recorder) ObserveTransition(status string) {
	r.transitions.WithLabelValues(status).Inc()
}

func (r *Recorder) ObserveDelivery(result string) {
	r.deliveries.WithLabelValues(result).Inc()
}

// HTTPStarted tracks an in-flight request and returns the func that completes it.
func (r *Recorder) HTTPStarted() func(method, path string, status int) {
	start := time.Now()
	r.httpInflight.Inc()
	return func(method, path string, status int) {
		r.httpInflight.Dec()
		r.httpReqs.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		r.httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
