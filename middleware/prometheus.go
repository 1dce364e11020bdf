package middleware

import (
	"strconv"
	"time"

	"blog-articles-service/metrics"

	"github.com/gin-gonic/gin"
)

// Prometheus creates a middleware for collecting Prometheus metrics. Paths
// are labelled by route template so article names do not explode the
// label set.
func Prometheus(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())

		metrics.HttpRequestsTotal.WithLabelValues(method, path, statusCode, serviceName).Inc()
		metrics.HttpRequestDuration.WithLabelValues(method, path, serviceName).Observe(duration)
	}
}
