package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mygeo",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mygeo",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mygeo",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Tracker metrics
	PositionUpdatesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mygeo",
		Subsystem: "tracker",
		Name:      "position_updates_applied_total",
		Help:      "Position samples applied to the tracker state",
	})

	PositionUpdatesIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mygeo",
		Subsystem: "tracker",
		Name:      "position_updates_ignored_total",
		Help:      "Position samples delivered after the subscription was released",
	})

	SamplesFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mygeo",
		Subsystem: "location",
		Name:      "samples_filtered_total",
		Help:      "Samples dropped by watch thresholds",
	}, []string{"reason"})

	TrackerStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mygeo",
		Subsystem: "tracker",
		Name:      "status",
		Help:      "1 for the tracker's current status, 0 otherwise",
	}, []string{"status"})

	PermissionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mygeo",
		Subsystem: "tracker",
		Name:      "permission_requests_total",
		Help:      "Foreground permission prompts by outcome",
	}, []string{"outcome"})

	// Point metrics
	PointsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mygeo",
		Subsystem: "points",
		Name:      "created_total",
		Help:      "Points of interest created, by entry path",
	}, []string{"source"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mygeo",
		Subsystem: "points",
		Name:      "validation_failures_total",
		Help:      "Rejected point submissions, by reason",
	}, []string{"reason"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mygeo",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mygeo",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Map events published to the broker",
	}, []string{"subject", "result"})
)

// SetTrackerStatus flips the status gauge to the given value.
func SetTrackerStatus(current string, all ...string) {
	for _, s := range all {
		TrackerStatus.WithLabelValues(s).Set(0)
	}
	TrackerStatus.WithLabelValues(current).Set(1)
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// fiber resolves the route pattern, which keeps label cardinality bounded
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
