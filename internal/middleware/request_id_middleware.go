package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"caption-resolver-backend/pkg/logger"
)

// RequestIDMiddleware assigns every request an identifier, honoring one
// supplied by the caller, and threads it through the log context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		ctx := logger.ContextWithFields(c.Request.Context(), map[string]interface{}{"request_id": requestID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
