package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request throughput and latency for the gin layer.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "festguide",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "festguide",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware observes every request.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Domain counts scheduling outcomes worth alerting on.
type Domain struct {
	SlotConflicts     prometheus.Counter
	SchedulePublishes prometheus.Counter
	NotifyFailures    prometheus.Counter
}

func NewDomain(reg prometheus.Registerer) *Domain {
	d := &Domain{
		SlotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "festguide",
			Subsystem: "scheduling",
			Name:      "slot_conflicts_total",
			Help:      "Slot mutations rejected for interval overlap or double engagement.",
		}),
		SchedulePublishes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "festguide",
			Subsystem: "scheduling",
			Name:      "schedule_publishes_total",
			Help:      "Successful schedule publish operations.",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "festguide",
			Subsystem: "notification",
			Name:      "fanout_failures_total",
			Help:      "Schedule-change notifications that could not be published.",
		}),
	}
	reg.MustRegister(d.SlotConflicts, d.SchedulePublishes, d.NotifyFailures)
	return d
}
