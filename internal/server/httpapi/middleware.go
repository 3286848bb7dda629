package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viktorkr/authapp/internal/server/auth"
)

// Context keys under which the middleware stores the verified claims.
const (
	ContextUserIDKey = "userID"
	ContextEmailKey  = "userEmail"
)

// requireToken verifies the Authorization header and aborts with 401 when
// the bearer token is missing, malformed, expired or otherwise invalid.
func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: "Missing authorization token"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: "Invalid authorization header"})
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: "Invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}
