// Package metrics holds the Prometheus collectors for the catalog service
// and the /metrics handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StoreFetches counts per-row fetches made while assembling catalog views.
// result is "ok", "missing" or "error".
var StoreFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_store_fetches_total",
	Help: "Row fetches issued by the aggregator, by table and result.",
}, []string{"table", "result"})

// AggregationSkips counts pointers or children dropped from a view.
var AggregationSkips = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_aggregation_skips_total",
	Help: "Rows omitted from aggregated views because they could not be resolved.",
}, []string{"kind"})

// RailCache counts rail cache lookups by result ("hit", "miss", "error").
var RailCache = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_rail_cache_total",
	Help: "Rail cache lookups by result.",
}, []string{"result"})

// Mutations counts mutation pipeline runs by operation and result.
var Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_mutations_total",
	Help: "Content mutations by operation and result.",
}, []string{"op", "result"})

// Compensations counts compensating deletes by outcome
// ("applied", "queued", "failed").
var Compensations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_compensations_total",
	Help: "Compensating deletes issued after failed mutations.",
}, []string{"outcome"})

// DemandDecisions counts demand intake outcomes ("accepted", "rate_limited").
var DemandDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_demand_decisions_total",
	Help: "Demand intake decisions.",
}, []string{"result"})

// OrphanRows is the last audited number of unreferenced rows per table.
var OrphanRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "catalog_orphan_rows",
	Help: "Episode and season rows not referenced by any parent list.",
}, []string{"table"})

// HTTPRequests counts HTTP requests by method, route pattern and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "path", "status"})

// HTTPDuration tracks HTTP request latency.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "catalog_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
