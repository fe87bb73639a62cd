// Package metrics provides Prometheus instrumentation for the ordering
// service: HTTP request metrics plus counters for the canteen and store
// flows.
//
//	r.Use(metrics.Middleware())
//	r.GET("/metrics", metrics.Handler())
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "restore"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "canteen",
		Name:      "orders_placed_total",
		Help:      "Orders created at checkout.",
	})

	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "canteen",
			Name:      "order_transitions_total",
			Help:      "Order status changes by target status and trigger.",
		},
		[]string{"to", "trigger"},
	)

	ScanResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "canteen",
			Name:      "scans_total",
			Help:      "Verification token scans by outcome.",
		},
		[]string{"result"},
	)

	RestockRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "restock_requests_total",
		Help:      "Restock requests raised by students.",
	})

	Restocks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "restocks_total",
		Help:      "Vendor restock actions.",
	})
)

// Registry holds every collector above plus the Go runtime collectors
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		RequestDuration,
		OrdersPlaced,
		OrderTransitions,
		ScanResults,
		RestockRequests,
		Restocks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Middleware records request duration labelled by route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes Registry in the Prometheus text format
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
