package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	extractions     *prometheus.CounterVec
	extractDuration *prometheus.HistogramVec
	sessions        prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindmap_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mindmap_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindmap_extractions_total",
				Help: "Outline extractions by source kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		extractDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mindmap_extraction_duration_seconds",
				Help:    "Duration of outline extractions",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mindmap_sessions",
			Help: "Live interactive mind map sessions",
		}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.extractions, m.extractDuration, m.sessions)
	return m
}

// middleware records request counts and latency under the matched chi route
// pattern, so path parameters do not explode label cardinality.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *metrics) observeExtraction(kind string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if kind == "" {
		kind = "unknown"
	}
	m.extractions.WithLabelValues(kind, outcome).Inc()
	m.extractDuration.WithLabelValues(kind).Observe(d.Seconds())
}
