package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/portfolio-showcase/portfolio-api/internal/telemetry"
)

func OtelTracing(serviceName string) gin.HandlerFunc {
	return telemetry.GinMiddleware(serviceName)
}

// TraceID echoes the request's trace id in the X-Trace-Id header.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := telemetry.TraceID(c.Request.Context()); id != "" {
			c.Header("X-Trace-Id", id)
		}
		c.Next()
	}
}
