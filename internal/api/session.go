package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/service"
)

// SessionHeader carries the client's session id
const SessionHeader = "X-Session-ID"

const (
	ctxKeyUser      = "session_user"
	ctxKeySessionID = "session_id"
)

// requireSession resolves the session header to a user and rejects the
// request when there is none
func requireSession(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := auth.Current(c.Request.Context(), sid)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(ctxKeyUser, user)
		c.Set(ctxKeySessionID, sid)
		c.Next()
	}
}

// sessionUser returns the user resolved by requireSession
func sessionUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxKeySessionID)
}
