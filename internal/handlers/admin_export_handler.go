package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/export"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AdminExportHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAdminExportHandler(db *gorm.DB, cfg *config.Config) *AdminExportHandler {
	return &AdminExportHandler{db: db, cfg: cfg}
}

func csvHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
}

// ======================================================
// EXPORTS
// ======================================================

func (h *AdminExportHandler) Bookings(c *gin.Context) {
	loc := timezone.Location(h.cfg.SiteTimezone)

	q := h.db.Model(&models.Booking{})
	dateRangeFilter(c, loc, func(op string, t time.Time) {
		q = q.Where("start_at "+op+" ?", t)
	})

	var rows []models.Booking
	if err := q.Order("start_at ASC").Find(&rows).Error; err != nil {
		httperr.Internal(c, "export_failed", "could not export bookings")
		return
	}

	csvHeaders(c, "bookings.csv")
	if err := export.BookingsCSV(c.Writer, rows, loc); err != nil {
		// Headers are gone already; nothing left but to log it.
		log.Println("bookings export error:", err)
	}
}

func (h *AdminExportHandler) Contacts(c *gin.Context) {
	loc := timezone.Location(h.cfg.SiteTimezone)

	q := h.db.Model(&models.ContactMessage{})
	dateRangeFilter(c, loc, func(op string, t time.Time) {
		q = q.Where("created_at "+op+" ?", t)
	})

	var rows []models.ContactMessage
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		httperr.Internal(c, "export_failed", "could not export messages")
		return
	}

	csvHeaders(c, "contacts.csv")
	if err := export.ContactsCSV(c.Writer, rows, loc); err != nil {
		log.Println("contacts export error:", err)
	}
}

func (h *AdminExportHandler) Proposals(c *gin.Context) {
	loc := timezone.Location(h.cfg.SiteTimezone)

	q := h.db.Model(&models.Proposal{})
	dateRangeFilter(c, loc, func(op string, t time.Time) {
		q = q.Where("created_at "+op+" ?", t)
	})

	var rows []models.Proposal
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		httperr.Internal(c, "export_failed", "could not export proposals")
		return
	}

	csvHeaders(c, "proposals.csv")
	if err := export.ProposalsCSV(c.Writer, rows, loc); err != nil {
		log.Println("proposals export error:", err)
	}
}
