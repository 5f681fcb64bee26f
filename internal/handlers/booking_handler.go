package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/driftwoodweb/studio-api/internal/config"
	domain "github.com/driftwoodweb/studio-api/internal/domain/booking"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/timezone"
	usecase "github.com/driftwoodweb/studio-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	cfg          *config.Config
	submit       *usecase.Submit
	availability *usecase.Availability
}

func NewBookingHandler(
	cfg *config.Config,
	submit *usecase.Submit,
	availability *usecase.Availability,
) *BookingHandler {
	return &BookingHandler{
		cfg:          cfg,
		submit:       submit,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// No binding tags here: missing fields must map to their own reason
// codes, not a generic bind error.
type CreateBookingRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Service         string `json:"service"`
	DurationMinutes int    `json:"durationMinutes"`
	StartAt         string `json:"startAt"`
	Notes           string `json:"notes"`
}

// ======================================================
// CONFIG
// ======================================================

func (h *BookingHandler) Config(c *gin.Context) {
	blackouts := h.cfg.BlackoutDates
	if blackouts == nil {
		blackouts = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"startHour":        h.cfg.BookingStartHour,
		"endHour":          h.cfg.BookingEndHour,
		"bufferMinutes":    h.cfg.BufferMinutes,
		"daysAhead":        h.cfg.DaysAhead,
		"allowWeekends":    h.cfg.AllowWeekends,
		"blackoutDates":    blackouts,
		"services":         h.cfg.Services,
		"durationsMinutes": h.cfg.AllowedDurations,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	loc := timezone.Location(h.cfg.SiteTimezone)

	from, err := time.ParseInLocation("2006-01-02", c.Query("from"), loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_from", "from must be YYYY-MM-DD")
		return
	}

	to, err := time.ParseInLocation("2006-01-02", c.Query("to"), loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_to", "to must be YYYY-MM-DD")
		return
	}
	// to is inclusive in the query string, the range is half-open.
	to = to.AddDate(0, 0, 1)

	if to.Before(from) || to.Sub(from) > 90*24*time.Hour {
		httperr.BadRequest(c, "invalid_range", "range must cover at most 90 days")
		return
	}

	rows, err := h.availability.Execute(c.Request.Context(), from, to)
	if err != nil {
		httperr.Internal(c, domain.ReasonStorage, domain.Message(domain.ReasonStorage))
		return
	}

	// Only the occupied intervals leave the API, never requester data.
	slots := make([]gin.H, 0, len(rows))
	for _, b := range rows {
		slots = append(slots, gin.H{
			"startAt": b.StartAt,
			"endAt":   b.EndAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"bookings": slots})
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "malformed request body")
		return
	}

	b, err := h.submit.Execute(c.Request.Context(), usecase.SubmitInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Service:         req.Service,
		DurationMinutes: req.DurationMinutes,
		StartAt:         req.StartAt,
		Notes:           req.Notes,
	})
	if err != nil {
		code, ok := httperr.BusinessCode(err)
		if !ok {
			httperr.Internal(c, domain.ReasonStorage, domain.Message(domain.ReasonStorage))
			return
		}

		switch code {
		case domain.ReasonTimeConflict:
			httperr.Conflict(c, code, domain.Message(code))
		case domain.ReasonStorage:
			httperr.Internal(c, code, domain.Message(code))
		default:
			httperr.BadRequest(c, code, domain.Message(code))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": b.ID})
}
