package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/httpresp"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AdminAuthHandler struct {
	db       *gorm.DB
	sessions *middleware.SessionManager
	audit    *audit.Dispatcher
}

func NewAdminAuthHandler(
	db *gorm.DB,
	sessions *middleware.SessionManager,
	auditor *audit.Dispatcher,
) *AdminAuthHandler {
	return &AdminAuthHandler{
		db:       db,
		sessions: sessions,
		audit:    auditor,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ======================================================
// LOGIN / LOGOUT
// ======================================================

func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var admin models.AdminUser
	if err := h.db.Where("email = ?", email).First(&admin).Error; err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "wrong email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "wrong email or password")
		return
	}

	if err := h.sessions.SetAdminID(c.Writer, admin.ID); err != nil {
		httperr.Internal(c, "session_failed", "could not create the session")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &admin.ID,
		Action:    "admin_login",
		Entity:    "admin_user",
		EntityID:  &admin.ID,
	})

	httpresp.OK(c, gin.H{
		"ok": true,
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
		},
	})
}

func (h *AdminAuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c.Writer)
	httpresp.OK(c, gin.H{"ok": true})
}

// Me returns the authenticated operator, mostly for the dashboard to
// confirm the session is alive.
func (h *AdminAuthHandler) Me(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var admin models.AdminUser
	if err := h.db.First(&admin, adminID).Error; err != nil {
		httperr.NotFound(c, "admin_not_found", "admin user not found")
		return
	}

	httpresp.OK(c, admin)
}
