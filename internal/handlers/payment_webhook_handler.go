package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/notify"
	"github.com/driftwoodweb/studio-api/internal/payments"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentWebhookHandler struct {
	db       *gorm.DB
	provider payments.Provider
	notify   *notify.Dispatcher
	audit    *audit.Dispatcher
	operator string
}

func NewPaymentWebhookHandler(
	db *gorm.DB,
	cfg *config.Config,
	provider payments.Provider,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		db:       db,
		provider: provider,
		notify:   notifier,
		audit:    auditor,
		operator: cfg.OperatorEmail,
	}
}

// Mercado Pago posts either a JSON body or bare query params
// depending on the notification mode.
type paymentWebhook struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// ======================================================
// WEBHOOK
// ======================================================

func (h *PaymentWebhookHandler) Receive(c *gin.Context) {
	var evt paymentWebhook
	if err := c.ShouldBindJSON(&evt); err != nil {
		evt.Type = c.Query("type")
		evt.Data.ID = json.Number(c.Query("data.id"))
	}

	// Anything that is not a payment event is acknowledged and dropped,
	// otherwise the gateway keeps retrying.
	if evt.Type != "payment" || evt.Data.ID == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	payment, err := h.provider.GetPayment(c.Request.Context(), evt.Data.ID.String())
	if err != nil {
		if errors.Is(err, payments.ErrDisabled) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		// A non-200 makes the gateway retry later.
		log.Printf("payments: webhook lookup for %s failed: %v", evt.Data.ID, err)
		httperr.Internal(c, "payment_lookup_failed", "could not verify the payment")
		return
	}

	if payment.Status != "approved" || payment.ExternalReference == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	var b models.Booking
	if err := h.db.Where("reference = ?", payment.ExternalReference).First(&b).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	// Gateways redeliver; the second confirmation is a no-op.
	if b.PaymentStatus == "paid" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.db.Model(&b).Update("payment_status", "paid").Error; err != nil {
		httperr.Internal(c, "payment_update_failed", "could not record the payment")
		return
	}

	h.notify.Dispatch(notify.PaymentConfirmedAlert(h.operator, b.Reference))

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleSystem,
		Action:    "payment_confirmed",
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata:  map[string]any{"paymentId": evt.Data.ID.String()},
	})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
