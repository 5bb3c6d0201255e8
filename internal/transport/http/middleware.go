package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const authCookieName = "token"

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}

// bearerToken extracts the auth token from the query string, the
// Authorization header, or the auth cookie, in that order.
func bearerToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}

	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}

	return ""
}

// setAuthCookie attaches the token as a cookie so browser clients keep it
// across reloads.
func setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(authCookieName, token, maxAge, "/", "", false, true)
}

// clearAuthCookie removes any stale auth cookie the caller is presenting.
// Every rejection path goes through here so a client never keeps retrying a
// dead token.
func clearAuthCookie(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
}
