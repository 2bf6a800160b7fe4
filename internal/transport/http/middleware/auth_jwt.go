package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devconnector/internal/core/auth"
	resp "devconnector/internal/transport/http/response"
)

const (
	HeaderAuthToken = "x-auth-token"
	KeyUserID       = "userId"
	KeyClaims       = "claims"
)

// AuthJWT takes the token from x-auth-token or an Authorization bearer
// header and stores the caller's user id under KeyUserID.
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := c.GetHeader(HeaderAuthToken)
		if tok == "" { // 兼容 Authorization: Bearer xxx
			if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
				tok = bearer
			}
		}
		tok = strings.TrimSpace(tok)
		if tok == "" {
			resp.Abort(c, http.StatusUnauthorized, resp.MsgNoToken)
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, resp.MsgInvalidToken)
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.User.ID)
		c.Next()
	}
}
