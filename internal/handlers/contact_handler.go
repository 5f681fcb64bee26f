package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/httpresp"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/notify"
	"github.com/driftwoodweb/studio-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ContactHandler struct {
	db       *gorm.DB
	notify   *notify.Dispatcher
	audit    *audit.Dispatcher
	operator string
}

func NewContactHandler(
	db *gorm.DB,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
	operator string,
) *ContactHandler {
	return &ContactHandler{
		db:       db,
		notify:   notifier,
		audit:    auditor,
		operator: operator,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type UpdateContactRequest struct {
	Status string `json:"status" binding:"required"`
}

var contactStatuses = map[string]bool{
	"new":      true,
	"read":     true,
	"archived": true,
}

// ======================================================
// CREATE (public)
// ======================================================

func (h *ContactHandler) Create(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "malformed request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 100 {
		httperr.BadRequest(c, "invalid_name", "name is required (2 to 100 characters)")
		return
	}

	email := strings.TrimSpace(req.Email)
	if !validators.IsEmailFormatValid(email) {
		httperr.BadRequest(c, "invalid_email", "a valid email address is required")
		return
	}

	subject := strings.TrimSpace(req.Subject)
	if len(subject) > 150 {
		httperr.BadRequest(c, "invalid_subject", "subject is limited to 150 characters")
		return
	}

	message := strings.TrimSpace(req.Message)
	if len(message) < 5 || len(message) > 2000 {
		httperr.BadRequest(c, "invalid_message", "message is required (5 to 2000 characters)")
		return
	}

	m := models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  "new",
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&m).Error; err != nil {
		httperr.Internal(c, "storage_unavailable", "could not save the message, please try again")
		return
	}

	preview := subject
	if preview == "" {
		preview = message
		if len(preview) > 80 {
			preview = preview[:80] + "..."
		}
	}
	h.notify.Dispatch(notify.ContactAlert(h.operator, m.Name, m.Email, preview))

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleSystem,
		Action:    "contact_received",
		Entity:    "contact_message",
		EntityID:  &m.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": m.ID})
}

// ======================================================
// LIST (admin)
// ======================================================

func (h *ContactHandler) List(c *gin.Context) {
	_, limit, offset := pagination(c)

	q := h.db.Model(&models.ContactMessage{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "contact_count_failed", "could not count messages")
		return
	}

	var rows []models.ContactMessage
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "contact_list_failed", "could not list messages")
		return
	}

	httpresp.List(c, rows, total)
}

// ======================================================
// UPDATE STATUS (admin)
// ======================================================

func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil || !contactStatuses[req.Status] {
		httperr.BadRequest(c, "invalid_status", "status must be new, read or archived")
		return
	}

	var m models.ContactMessage
	if err := h.db.First(&m, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "contact_not_found", "message not found")
		return
	}

	m.Status = req.Status
	if err := h.db.Save(&m).Error; err != nil {
		httperr.Internal(c, "contact_update_failed", "could not update the message")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "contact_status_changed",
		Entity:    "contact_message",
		EntityID:  &m.ID,
		Metadata:  map[string]any{"status": m.Status},
	})

	httpresp.OK(c, m)
}
