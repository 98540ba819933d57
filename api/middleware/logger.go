package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridpulse/energy-optimizer/internal/logger"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := map[string]interface{}{
			"status":     status,
			"method":     c.Request.Method,
			"path":       path,
			"latency_ms": latency.Milliseconds(),
			"ip":         c.ClientIP(),
		}

		if query != "" {
			fields["query"] = query
		}
		if traceID := GetTraceID(c); traceID != "" {
			fields["trace_id"] = traceID
		}
		if id := c.Param("id"); id != "" {
			fields["building_id"] = id
		}
		if region := c.Param("region"); region != "" {
			fields["region"] = region
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("server error")
		case status >= 400:
			entry.Warn("client error")
		case strings.HasPrefix(path, "/health"):
			// Liveness probes fire every few seconds; keep them off info.
			entry.Debug("health probe")
		default:
			entry.Info("request completed")
		}
	}
}
