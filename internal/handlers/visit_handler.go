package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/visits"
)

type VisitHandler struct {
	tracker *visits.Tracker
}

func NewVisitHandler(tracker *visits.Tracker) *VisitHandler {
	return &VisitHandler{tracker: tracker}
}

// Record counts one page view and echoes the running total back for
// the footer counter.
func (h *VisitHandler) Record(c *gin.Context) {
	total, err := h.tracker.Record(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "visit_failed", "could not record the visit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "total": total})
}
