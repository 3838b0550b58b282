package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware returns a middleware that traces HTTP requests using
// OpenTelemetry. Register TraceAttributesMiddleware after it to enrich the
// span with request-specific attributes.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceAttributesMiddleware adds domain attributes and gin errors to the
// active request span. It must run inside the otelgin middleware: the span
// is only recording while the handler chain is still on the stack.
func TraceAttributesMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if username := c.GetString("admin_username"); username != "" {
			span.SetAttributes(attribute.String("admin.username", username))
		}

		if sessionID := c.Query("sessionId"); sessionID != "" {
			span.SetAttributes(attribute.String("visit.session_id", sessionID))
		}

		if status := c.Query("status"); status != "" {
			span.SetAttributes(attribute.String("lead.status_filter", status))
		}

		if period := c.Query("period"); period != "" {
			span.SetAttributes(attribute.String("analytics.period", period))
		}

		// Record Gin errors as span events
		for _, ginErr := range c.Errors {
			if ginErr.Err != nil {
				span.RecordError(ginErr.Err, trace.WithStackTrace(true))
				span.SetStatus(codes.Error, ginErr.Error())
			}
		}
	}
}
