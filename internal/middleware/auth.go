package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-api/pkg/jwt"
	"github.com/lingora/lingora-api/pkg/logger"
	"go.uber.org/zap"
)

// InternalAPIAuthMiddleware validates the internal API token used by
// trusted backend callers (cache maintenance, admin tooling)
func InternalAPIAuthMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("x-internal-lingora-api-auth-token")

		if token == "" || !jwt.TimingSafeCompare(token, validToken) {
			logger.Warn("Invalid internal API token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing internal API token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
