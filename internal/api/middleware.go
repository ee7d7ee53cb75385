package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/view"
)

// SessionCookie holds the visitor session ID.
const SessionCookie = "portfolio_session"

const (
	ctxSessionID  = "session_id"
	ctxController = "view_controller"
)

// loggerMiddleware logs one line per request.
func loggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, logger.String("query", query))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, logger.Strings("errors", c.Errors.Errors()))
			log.Error("HTTP request with errors", fields...)
			return
		}
		// Health checks and scrapes would drown everything else.
		if strings.HasPrefix(path, "/health") || path == "/metrics" {
			log.Debug("HTTP request", fields...)
			return
		}
		log.Info("HTTP request", fields...)
	}
}

func recoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					logger.Any("error", err),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

// sessionMiddleware attaches the visitor's view controller to the request,
// issuing a session cookie when the visitor has none.
func sessionMiddleware(sessions *view.Sessions, ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl.Seconds())
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookie)
		ctrl, id := sessions.Lookup(cookie)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, maxAge, "/", "", false, true)
		c.Set(ctxSessionID, id)
		c.Set(ctxController, ctrl)
		c.Next()
	}
}

// SessionID returns the visitor session ID set by the session middleware.
func SessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func controller(c *gin.Context) *view.Controller {
	ctrl, _ := c.MustGet(ctxController).(*view.Controller)
	return ctrl
}
