package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/httpresp"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/timezone"
	"github.com/driftwoodweb/studio-api/internal/visits"
)

// ======================================================
// HANDLER
// ======================================================

type AdminStatsHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	tracker *visits.Tracker
}

func NewAdminStatsHandler(db *gorm.DB, cfg *config.Config, tracker *visits.Tracker) *AdminStatsHandler {
	return &AdminStatsHandler{db: db, cfg: cfg, tracker: tracker}
}

// ======================================================
// STATS
// ======================================================

func (h *AdminStatsHandler) Stats(c *gin.Context) {
	now := timezone.NowIn(h.cfg.SiteTimezone)
	ctx := c.Request.Context()

	// --------------------------------------------------
	// Bookings
	// --------------------------------------------------
	var bookingTotal int64
	h.db.Model(&models.Booking{}).Count(&bookingTotal)

	var upcoming int64
	h.db.Model(&models.Booking{}).
		Where("start_at >= ? AND start_at < ?", now, now.AddDate(0, 0, 7)).
		Count(&upcoming)

	// --------------------------------------------------
	// Visits
	// --------------------------------------------------
	visitsToday, _ := h.tracker.Today(ctx)
	visits7d, _ := h.tracker.LastDays(ctx, 7)
	visitsTotal, _ := h.tracker.Total(ctx)

	// --------------------------------------------------
	// Counts per bucket
	// --------------------------------------------------
	var contactTotal, proposalTotal int64
	h.db.Model(&models.ContactMessage{}).Count(&contactTotal)
	h.db.Model(&models.Proposal{}).Count(&proposalTotal)

	httpresp.OK(c, gin.H{
		"bookings": gin.H{
			"total":         bookingTotal,
			"upcoming7Days": upcoming,
			"byStatus":      h.countBy(&models.Booking{}, "status"),
			"byPayment":     h.countBy(&models.Booking{}, "payment_status"),
		},
		"contacts": gin.H{
			"total":    contactTotal,
			"byStatus": h.countBy(&models.ContactMessage{}, "status"),
		},
		"proposals": gin.H{
			"total":      proposalTotal,
			"byPriority": h.countBy(&models.Proposal{}, "priority"),
		},
		"visits": gin.H{
			"today":     visitsToday,
			"last7Days": visits7d,
			"total":     visitsTotal,
		},
		"generatedAt": time.Now().UTC(),
	})
}

// countBy groups one column into bucket counts.
func (h *AdminStatsHandler) countBy(model any, column string) map[string]int64 {
	type bucket struct {
		Key   string
		Count int64
	}

	var rows []bucket
	h.db.Model(model).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows)

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out
}
