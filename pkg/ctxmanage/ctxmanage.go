package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
)

type traceIdKey struct{}

// WithTraceId stores the request trace id in the context.
func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, traceIdKey{}, traceId)
}

// GetTraceIdOfRequest returns the trace id set by the logging middleware,
// or "unknown" when the middleware did not run (e.g. in tests).
func GetTraceIdOfRequest(c *gin.Context) string {
	traceId, ok := c.Request.Context().Value(traceIdKey{}).(string)
	if !ok {
		return "unknown"
	}
	return traceId
}
