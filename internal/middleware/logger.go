package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medinfo/medinfo-api/pkg/logger"
)

// RequestLogger emits one structured log line per request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		event := log.ZL.Info()
		if c.Writer.Status() >= 500 {
			event = log.ZL.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("request")
	}
}
