package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/models"
)

const ContextAdminID = "adminID"

// AdminAuthMiddleware accepts the signed session cookie or HTTP Basic
// credentials, in that order. Basic keeps curl and the uptime monitor
// working without a login round trip.
func AdminAuthMiddleware(db *gorm.DB, sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminID, ok := sessions.AdminID(c.Request); ok {
			c.Set(ContextAdminID, adminID)
			c.Next()
			return
		}

		if email, password, ok := c.Request.BasicAuth(); ok {
			var admin models.AdminUser
			err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
				First(&admin).Error
			if err == nil &&
				bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil {
				c.Set(ContextAdminID, admin.ID)
				c.Next()
				return
			}
		}

		c.Header("WWW-Authenticate", `Basic realm="studio-admin"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}
