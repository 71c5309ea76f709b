package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "social_http_requests_total",
		Help: "HTTP requests by route pattern and status code",
	}, []string{"route", "code"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "social_http_request_duration_seconds",
		Help:    "HTTP request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "social_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
	Operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "social_operations_total",
		Help: "Core graph mutations by operation and outcome",
	}, []string{"op", "outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, RateLimited, Operations)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one finished HTTP request
func ObserveRequest(route string, code int, start time.Time) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// RecordOperation counts a core mutation; err nil means success.
func RecordOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Operations.WithLabelValues(op, outcome).Inc()
}
