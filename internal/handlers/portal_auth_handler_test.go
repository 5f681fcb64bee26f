package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/notify"
)

func newPortalRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	cfg := testConfig()

	notifyD := notify.NewDispatcher(notify.NewNoop())
	auditD := audit.NewDispatcher(audit.New(db))

	auth := NewPortalAuthHandler(db, cfg, notifyD, auditD)
	portal := NewPortalHandler(db, cfg, nil, notifyD, auditD)

	r := gin.New()
	r.POST("/api/portal/request-link", auth.RequestLink)
	r.POST("/api/portal/exchange", auth.Exchange)

	authed := r.Group("/api/portal")
	authed.Use(middleware.PortalAuthMiddleware(cfg))
	authed.GET("/projects", portal.ListProjects)
	authed.GET("/projects/:id", portal.GetProject)
	authed.POST("/projects/:id/feedback", portal.PostFeedback)
	authed.POST("/milestones/:id/approve", portal.ApproveMilestone)

	return r, db, cfg
}

func seedClient(t *testing.T, db *gorm.DB, email string) *models.PortalClient {
	t.Helper()
	client := models.PortalClient{Name: "Marina Costa", Email: email, Company: "Costa Cafes"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
	return &client
}

// magicToken issues a link the way the handlers do and peels the JWT
// out of the login URL.
func magicToken(t *testing.T, db *gorm.DB, cfg *config.Config, client *models.PortalClient) string {
	t.Helper()

	link, err := createMagicLink(db, cfg, client)
	if err != nil {
		t.Fatalf("failed to create magic link: %v", err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("bad link %q: %v", link, err)
	}

	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("link %q carries no token", link)
	}
	return token
}

func doAuthJSON(r http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --------------------------------------------------
// Request link
// --------------------------------------------------

func TestPortalRequestLink_NeverRevealsMembership(t *testing.T) {
	r, db, _ := newPortalRouter(t)
	client := seedClient(t, db, "marina@client.test")

	// Unknown address: same answer, no token row.
	w := doJSON(r, http.MethodPost, "/api/portal/request-link", gin.H{"email": "ghost@nowhere.test"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])

	// Known address: same answer, one token row.
	w = doJSON(r, http.MethodPost, "/api/portal/request-link", gin.H{"email": client.Email})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])

	var count int64
	db.Model(&models.PortalToken{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestPortalRequestLink_RejectsBadEmail(t *testing.T) {
	r, _, _ := newPortalRouter(t)

	w := doJSON(r, http.MethodPost, "/api/portal/request-link", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_email", decodeBody(t, w)["error"])
}

// --------------------------------------------------
// Exchange
// --------------------------------------------------

func TestPortalExchange_IssuesSession(t *testing.T) {
	r, db, cfg := newPortalRouter(t)
	client := seedClient(t, db, "marina@client.test")
	token := magicToken(t, db, cfg, client)

	w := doJSON(r, http.MethodPost, "/api/portal/exchange", gin.H{"token": token})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	got := body["client"].(map[string]any)
	assert.Equal(t, client.Email, got["email"])
	assert.Equal(t, client.Name, got["name"])
}

func TestPortalExchange_LinkIsSingleUse(t *testing.T) {
	r, db, cfg := newPortalRouter(t)
	client := seedClient(t, db, "marina@client.test")
	token := magicToken(t, db, cfg, client)

	w := doJSON(r, http.MethodPost, "/api/portal/exchange", gin.H{"token": token})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/portal/exchange", gin.H{"token": token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", decodeBody(t, w)["error"])
}

func TestPortalExchange_ExpiredLinkRejected(t *testing.T) {
	r, db, cfg := newPortalRouter(t)
	client := seedClient(t, db, "marina@client.test")
	token := magicToken(t, db, cfg, client)

	db.Model(&models.PortalToken{}).
		Where("client_id = ?", client.ID).
		Update("expires_at", time.Now().Add(-time.Minute))

	w := doJSON(r, http.MethodPost, "/api/portal/exchange", gin.H{"token": token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", decodeBody(t, w)["error"])
}

func TestPortalExchange_RejectsForgedToken(t *testing.T) {
	r, db, _ := newPortalRouter(t)
	client := seedClient(t, db, "marina@client.test")

	// Signed with the wrong secret: the signature check must fail even
	// though the claims look right.
	forged, err := signPortalToken("some-other-secret", client.ID, tokenTypeMagicLink, time.Minute, "forged-jti")
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	w := doJSON(r, http.MethodPost, "/api/portal/exchange", gin.H{"token": forged})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", decodeBody(t, w)["error"])
}

func TestPortalExchange_SessionTokenCannotBeExchanged(t *testing.T) {
	r, db, cfg := newPortalRouter(t)
	client := seedClient(t, db, "marina@client.test")
	token := magicToken(t, db, cfg, client)

	w := doJSON(r, http.MethodPost, "/api/portal/exchange", gin.H{"token": token})
	assert.Equal(t, http.StatusOK, w.Code)
	session := decodeBody(t, w)["token"].(string)

	w = doJSON(r, http.MethodPost, "/api/portal/exchange", gin.H{"token": session})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --------------------------------------------------
// Session middleware
// --------------------------------------------------

func TestPortalSession_OpensPortal(t *testing.T) {
	r, db, cfg := newPortalRouter(t)
	client := seedClient(t, db, "marina@client.test")
	token := magicToken(t, db, cfg, client)

	w := doJSON(r, http.MethodPost, "/api/portal/exchange", gin.H{"token": token})
	assert.Equal(t, http.StatusOK, w.Code)
	session := decodeBody(t, w)["token"].(string)

	w = doAuthJSON(r, http.MethodGet, "/api/portal/projects", session, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["projects"])
}

func TestPortalSession_MagicLinkCannotSkipExchange(t *testing.T) {
	r, db, cfg := newPortalRouter(t)
	client := seedClient(t, db, "marina@client.test")
	token := magicToken(t, db, cfg, client)

	w := doAuthJSON(r, http.MethodGet, "/api/portal/projects", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPortalSession_MissingHeaderRejected(t *testing.T) {
	r, _, _ := newPortalRouter(t)

	w := doAuthJSON(r, http.MethodGet, "/api/portal/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing_authorization_header", decodeBody(t, w)["error"])
}
