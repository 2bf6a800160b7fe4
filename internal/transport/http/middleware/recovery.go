package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "devconnector/internal/transport/http/response"
)

// Recovery logs the panic with its stack and answers the generic 500.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.Abort()
		resp.ServerError(c)
	})
}
