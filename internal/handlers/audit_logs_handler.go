package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/httpresp"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuditLogsHandler(db *gorm.DB, cfg *config.Config) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, cfg: cfg}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	loc := timezone.Location(h.cfg.SiteTimezone)
	_, limit, offset := pagination(c)

	q := h.db.Model(&models.AuditLog{})

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if role := c.Query("actorRole"); role != "" {
		q = q.Where("actor_role = ?", role)
	}

	dateRangeFilter(c, loc, func(op string, t time.Time) {
		q = q.Where("created_at "+op+" ?", t)
	})

	// --------------------------------------------------
	// Total + page
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "could not count audit entries")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "could not list audit entries")
		return
	}

	httpresp.List(c, logs, total)
}
