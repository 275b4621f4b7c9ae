package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts the server span of each request
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceAttributes copies request attributes onto the active span. Route
// groups add it after JWTAuth.
func TraceAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			attrs := []attribute.KeyValue{attribute.String("request.id", c.GetString(RequestIDKey))}
			if userID := c.GetString(UserIDKey); userID != "" {
				attrs = append(attrs, attribute.String("enduser.id", userID))
			}
			if role := c.GetString(RoleKey); role != "" {
				attrs = append(attrs, attribute.String("enduser.role", role))
			}
			span.SetAttributes(attrs...)
		}
		c.Next()
	}
}
