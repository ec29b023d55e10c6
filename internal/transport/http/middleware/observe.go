package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const KeyRequestID = "X-Request-ID"

var (
	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "court_admin",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "court_admin",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)
)

func init() { prometheus.MustRegister(requests, latency) }

// RequestID keeps a sane incoming X-Request-ID or mints one, and echoes it
// back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(KeyRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(KeyRequestID, id)
		c.Header(KeyRequestID, id)
		c.Next()
	}
}

// Metrics 按路由模板打点，未匹配的路由合并成一个标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m := c.Request.Method
		requests.WithLabelValues(route, m, strconv.Itoa(c.Writer.Status())).Inc()
		latency.WithLabelValues(route, m).Observe(time.Since(start).Seconds())
	}
}
