package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/infrastructure/logger"
	"github.com/jobbook/backend/internal/interfaces/http/dto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OwnerIDHeader names the user whose collections a request works on
const OwnerIDHeader = "X-Owner-ID"

// Owner requires a UUID in X-Owner-ID and scopes the request to it: the ID
// goes into the gin context, the request logger and the current span.
// Identity is established upstream; this only reads the result.
func Owner() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(OwnerIDHeader)
		if raw == "" {
			abortUnauthorized(c, "X-Owner-ID header is required")
			return
		}
		ownerID, err := uuid.Parse(raw)
		if err != nil || ownerID == uuid.Nil {
			abortUnauthorized(c, "X-Owner-ID must be a valid UUID")
			return
		}

		owner := ownerID.String()
		c.Set(logger.GinOwnerIDKey, owner)

		ctx, reqLogger := logger.WithOwnerID(c.Request.Context(), logger.GetGinLogger(c), owner)
		c.Set(logger.GinLoggerKey, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(attribute.String("owner_id", owner))
		}
		c.Next()
	}
}

// GetOwnerID returns the owner set by Owner
func GetOwnerID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(logger.GinOwnerIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
