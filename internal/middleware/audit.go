package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyharbor/fleetops-api/internal/models"
)

// AuditSink accepts audit entries for persistence.
type AuditSink interface {
	Record(entry *models.AuditLog) error
}

// Audit records an audit log entry after each successful request. Failed
// requests and sink errors are not recorded.
func Audit(sink AuditSink, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		var actorEmail *string
		var actorRole *models.Role
		if claimsValue, ok := c.Get(ContextUserKey); ok {
			claims := claimsValue.(*models.JWTClaims)
			actorEmail = &claims.Email
			actorRole = &claims.Role
		}

		payload, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		_ = sink.Record(&models.AuditLog{
			ActorEmail: actorEmail,
			ActorRole:  actorRole,
			Action:     action,
			Resource:   resource,
			Payload:    payload,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			CreatedAt:  start,
		})
	}
}
