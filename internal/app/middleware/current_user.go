package middleware

import (
	"time"

	"admin/internal/app/ds"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	currentUserKey  = "current_user"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// GetUserFromContext returns the admin WithAuthCheck let through.
func GetUserFromContext(c *gin.Context) (ds.User, bool) {
	if user, exists := c.Get(currentUserKey); exists {
		if u, ok := user.(ds.User); ok {
			return u, true
		}
	}
	return ds.User{}, false
}

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
		})
		if user, ok := GetUserFromContext(c); ok {
			entry = entry.WithField("admin", user.Email)
		}
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		entry.Info("request")
	}
}
