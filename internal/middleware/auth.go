package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medinfo/medinfo-api/internal/service/auth"
	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/httputil"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

type AuthMiddleware struct {
	authService auth.AuthService
}

func NewAuthMiddleware(authService auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and sets the session identity in
// the request context. Access control beyond that is the caller's concern;
// the resolution engine itself never checks credentials.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
