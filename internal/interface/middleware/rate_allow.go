package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/lincup/pkg/response"
)

// AllowPrivateIP reports whether the client address is loopback or in a private range.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// Require rejects requests for which allow returns false.
func Require(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c) {
			response.Abort(c, http.StatusForbidden, "forbidden", nil)
			return
		}
		c.Next()
	}
}
