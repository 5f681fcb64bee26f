package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/notify"
	"github.com/driftwoodweb/studio-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

const (
	magicLinkTTL     = 15 * time.Minute
	portalSessionTTL = 7 * 24 * time.Hour

	tokenTypeMagicLink = "portal_link"
)

type PortalAuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	notify *notify.Dispatcher
	audit  *audit.Dispatcher
}

func NewPortalAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
) *PortalAuthHandler {
	return &PortalAuthHandler{
		db:     db,
		cfg:    cfg,
		notify: notifier,
		audit:  auditor,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RequestLinkRequest struct {
	Email string `json:"email"`
}

type ExchangeRequest struct {
	Token string `json:"token" binding:"required"`
}

// ======================================================
// REQUEST LINK
// ======================================================

// RequestLink always answers {ok:true}: the response never reveals
// whether the address belongs to a client.
func (h *PortalAuthHandler) RequestLink(c *gin.Context) {
	var req RequestLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "malformed request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailFormatValid(email) {
		httperr.BadRequest(c, "invalid_email", "a valid email address is required")
		return
	}

	var client models.PortalClient
	if err := h.db.Where("email = ?", email).First(&client).Error; err == nil {
		if link, err := createMagicLink(h.db, h.cfg, &client); err == nil {
			h.notify.Dispatch(notify.MagicLink(client.Email, client.Name, link, magicLinkTTL))

			h.audit.Dispatch(audit.Event{
				ActorRole: audit.RoleClient,
				ActorID:   &client.ID,
				Action:    "portal_link_requested",
				Entity:    "portal_client",
				EntityID:  &client.ID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ======================================================
// EXCHANGE
// ======================================================

func (h *PortalAuthHandler) Exchange(c *gin.Context) {
	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "token is required")
		return
	}

	token, err := jwt.Parse(req.Token, func(token *jwt.Token) (interface{}, error) {

		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		httperr.Unauthorized(c, "invalid_token", "the link is invalid or expired")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		httperr.Unauthorized(c, "invalid_token", "the link is invalid or expired")
		return
	}

	sub, okSub := claims["sub"].(float64)
	jti, okJti := claims["jti"].(string)
	typ, _ := claims["typ"].(string)
	if !okSub || !okJti || typ != tokenTypeMagicLink {
		httperr.Unauthorized(c, "invalid_token", "the link is invalid or expired")
		return
	}
	clientID := uint(sub)

	// Single use: the conditional update claims the jti exactly once,
	// even with two redeems racing.
	res := h.db.Model(&models.PortalToken{}).
		Where("token_id = ? AND client_id = ? AND used_at IS NULL AND expires_at > ?",
			jti, clientID, time.Now()).
		Update("used_at", time.Now())
	if res.Error != nil {
		httperr.Internal(c, "exchange_failed", "could not verify the link")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Unauthorized(c, "invalid_token", "the link is invalid or expired")
		return
	}

	var client models.PortalClient
	if err := h.db.First(&client, clientID).Error; err != nil {
		httperr.Unauthorized(c, "invalid_token", "the link is invalid or expired")
		return
	}

	session, err := signPortalToken(h.cfg.JWTSecret, client.ID, middleware.TokenTypePortalSession, portalSessionTTL, "")
	if err != nil {
		httperr.Internal(c, "exchange_failed", "could not create the session")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleClient,
		ActorID:   &client.ID,
		Action:    "portal_login",
		Entity:    "portal_client",
		EntityID:  &client.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"token": session,
		"client": gin.H{
			"id":      client.ID,
			"name":    client.Name,
			"email":   client.Email,
			"company": client.Company,
		},
	})
}

// ======================================================
// JWT
// ======================================================

func signPortalToken(secret string, clientID uint, typ string, ttl time.Duration, jti string) (string, error) {
	claims := jwt.MapClaims{
		"sub": clientID,
		"typ": typ,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	if jti != "" {
		claims["jti"] = jti
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// createMagicLink persists a fresh single-use token and returns the
// ready-to-send login URL.
func createMagicLink(db *gorm.DB, cfg *config.Config, client *models.PortalClient) (string, error) {
	jti := uuid.NewString()

	token := models.PortalToken{
		ClientID:  client.ID,
		TokenID:   jti,
		ExpiresAt: time.Now().Add(magicLinkTTL),
	}
	if err := db.Create(&token).Error; err != nil {
		return "", err
	}

	signed, err := signPortalToken(cfg.JWTSecret, client.ID, tokenTypeMagicLink, magicLinkTTL, jti)
	if err != nil {
		return "", err
	}
	return cfg.PublicBaseURL + "/portal?token=" + signed, nil
}
