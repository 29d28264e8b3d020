package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

const (
	ContextSessionKey  = "session"
	ContextRawTokenKey = "raw_token"
)

// AuthSession validates the bearer token against the session store and puts
// the live session record on the request context.
func AuthSession(authService *app.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, 401, response.CodeUnauthorized, "missing or malformed authorization header")
			c.Abort()
			return
		}

		session, err := authService.Authenticate(token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Set(ContextRawTokenKey, token)
		c.Next()
	}
}

// RequireAdmin must run after AuthSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok || session.Role != "admin" {
			response.Error(c, 403, response.CodeForbidden, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func SessionFrom(c *gin.Context) (*model.Session, bool) {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*model.Session)
	return session, ok
}

func RawTokenFrom(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextRawTokenKey)
	if !exists {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if authHeader == "" || !strings.HasPrefix(authHeader, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}
