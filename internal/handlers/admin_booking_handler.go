package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/httpresp"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/payments"
	"github.com/driftwoodweb/studio-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AdminBookingHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	payments payments.Provider
	audit    *audit.Dispatcher
}

func NewAdminBookingHandler(
	db *gorm.DB,
	cfg *config.Config,
	provider payments.Provider,
	auditor *audit.Dispatcher,
) *AdminBookingHandler {
	return &AdminBookingHandler{
		db:       db,
		cfg:      cfg,
		payments: provider,
		audit:    auditor,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// Pointers so an absent field stays untouched. Times are not here on
// purpose: a stored interval never moves.
type UpdateBookingRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
	AdminNotes    *string `json:"adminNotes"`
}

var bookingStatuses = map[string]bool{
	"new":         true,
	"in_progress": true,
	"done":        true,
}

var paymentStatuses = map[string]bool{
	"unpaid": true,
	"paid":   true,
}

// ======================================================
// LIST
// ======================================================

func (h *AdminBookingHandler) List(c *gin.Context) {
	loc := timezone.Location(h.cfg.SiteTimezone)
	_, limit, offset := pagination(c)

	q := h.db.Model(&models.Booking{})

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if payment := c.Query("paymentStatus"); payment != "" {
		q = q.Where("payment_status = ?", payment)
	}
	dateRangeFilter(c, loc, func(op string, t time.Time) {
		q = q.Where("start_at "+op+" ?", t)
	})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "booking_count_failed", "could not count bookings")
		return
	}

	var rows []models.Booking
	if err := q.
		Order("start_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "booking_list_failed", "could not list bookings")
		return
	}

	httpresp.List(c, rows, total)
}

// ======================================================
// UPDATE (status / payment / notes only)
// ======================================================

func (h *AdminBookingHandler) Update(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "malformed request body")
		return
	}

	var b models.Booking
	if err := h.db.First(&b, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "booking not found")
		return
	}

	changes := map[string]any{}

	if req.Status != nil {
		if !bookingStatuses[*req.Status] {
			httperr.BadRequest(c, "invalid_status", "status must be new, in_progress or done")
			return
		}
		b.Status = *req.Status
		changes["status"] = b.Status
	}

	if req.PaymentStatus != nil {
		if !paymentStatuses[*req.PaymentStatus] {
			httperr.BadRequest(c, "invalid_payment_status", "paymentStatus must be unpaid or paid")
			return
		}
		b.PaymentStatus = *req.PaymentStatus
		changes["paymentStatus"] = b.PaymentStatus
	}

	if req.AdminNotes != nil {
		if len(*req.AdminNotes) > 500 {
			httperr.BadRequest(c, "invalid_notes", "notes are limited to 500 characters")
			return
		}
		b.AdminNotes = *req.AdminNotes
		changes["adminNotes"] = true
	}

	if len(changes) == 0 {
		httperr.BadRequest(c, "empty_update", "nothing to update")
		return
	}

	if err := h.db.Save(&b).Error; err != nil {
		httperr.Internal(c, "booking_update_failed", "could not update the booking")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "booking_updated",
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata:  changes,
	})

	httpresp.OK(c, b)
}

// ======================================================
// PAYMENT LINK
// ======================================================

func (h *AdminBookingHandler) CreatePaymentLink(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var b models.Booking
	if err := h.db.First(&b, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "booking not found")
		return
	}

	if b.PaymentStatus == "paid" {
		httperr.BadRequest(c, "already_paid", "this booking is already paid")
		return
	}

	price, ok := h.cfg.ServicePrice(b.Service)
	if !ok || price <= 0 {
		httperr.BadRequest(c, "service_not_priced", "this service has no price configured")
		return
	}

	link, err := h.payments.CreateLink(c.Request.Context(), payments.LinkInput{
		Title:     "Driftwood Web Studio: " + b.Service,
		Amount:    price,
		Currency:  h.cfg.PaymentCurrency,
		Reference: b.Reference,
		NotifyURL: h.cfg.PublicBaseURL + "/api/payments/webhook",
	})
	if err != nil {
		if errors.Is(err, payments.ErrDisabled) {
			httperr.ServiceUnavailable(c, "payments_disabled", "payments are not configured")
			return
		}
		httperr.Internal(c, "payment_link_failed", "could not create the payment link")
		return
	}

	b.PaymentRef = link.Preference
	if err := h.db.Save(&b).Error; err != nil {
		httperr.Internal(c, "booking_update_failed", "could not store the payment reference")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "payment_link_created",
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata:  map[string]any{"preference": link.Preference, "amount": price},
	})

	httpresp.OK(c, gin.H{"url": link.URL})
}
