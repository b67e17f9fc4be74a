package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/httputil"
	"github.com/medinfo/medinfo-api/pkg/logger"
)

// Recovery converts panics into a 500 response instead of killing the
// connection, logging the panic value with the request id.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.ZL.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString("request_id")).
					Msg("panic recovered")
				httputil.RespondWithError(c, apperrors.Internal(nil))
				c.Abort()
			}
		}()
		c.Next()
	}
}
