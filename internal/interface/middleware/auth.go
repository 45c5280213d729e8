package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/lincup/internal/domain/repository"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/response"
)

// Auth validates the access token and requires it to belong to the user's live session.
// It sets userID, userEmail and sessionID in the Gin context on success.
func Auth(sessions repository.SessionStore, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessCookie)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || sess.SID != claims.SessionID {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		c.Set("userID", sess.UserID)
		c.Set("userEmail", sess.Email)
		c.Set("sessionID", sess.SID)
		c.Next()
	}
}
