package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/celuvia/backend/internal/infrastructure/config"
	"github.com/celuvia/backend/internal/interfaces/http/dto"
)

// IntegrationUserKey is the gin context key for the authenticated
// integration username
const IntegrationUserKey = "integration_user"

// RequireIntegrationAuth authenticates server-to-server requests with
// HTTP basic credentials from config. Comparison is constant time.
func RequireIntegrationAuth(cfg config.IntegrationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortIntegrationAuth(c, "Integration API is disabled")
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="integration"`)
			abortIntegrationAuth(c, "Missing credentials")
			return
		}

		userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
		if !userMatch || !passMatch {
			abortIntegrationAuth(c, "Invalid credentials")
			return
		}

		c.Set(IntegrationUserKey, username)
		c.Next()
	}
}

// GetIntegrationUser returns the authenticated integration username
func GetIntegrationUser(c *gin.Context) string {
	return c.GetString(IntegrationUserKey)
}

func abortIntegrationAuth(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
