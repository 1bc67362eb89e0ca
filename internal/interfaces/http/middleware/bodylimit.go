package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/celuvia/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size. Oversized declared lengths are
// rejected up front; chunked bodies are capped while streaming.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest,
					"Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
