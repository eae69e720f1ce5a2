package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "requestID"

// RequestID ensures every request has an id. A client-supplied X-Request-Id
// is kept, otherwise a random UUID is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// Logger is gin's request logger with the request id appended to each line.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		rid, _ := p.Keys[RequestIDKey].(string)
		return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v | rid=%s %s\n",
			p.TimeStamp.Format(time.RFC3339),
			p.StatusCode,
			p.Latency,
			p.ClientIP,
			p.Method,
			p.Path,
			rid,
			p.ErrorMessage,
		)
	})
}

// BodyLimit caps request bodies at limit bytes. Reads past the cap fail with
// *http.MaxBytesError, which handlers report as 413.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// PreflightFallback answers OPTIONS requests that the CORS middleware let
// through (those without an Origin header) with 200, and every other
// unmatched route with a JSON 404.
func PreflightFallback(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
}
