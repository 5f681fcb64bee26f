package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
)

func sessionFor(t *testing.T, cfg *config.Config, clientID uint) string {
	t.Helper()
	token, err := signPortalToken(cfg.JWTSecret, clientID, middleware.TokenTypePortalSession, time.Hour, "")
	if err != nil {
		t.Fatalf("failed to sign session token: %v", err)
	}
	return token
}

func seedProject(t *testing.T, db *gorm.DB, clientID uint, name string) *models.Project {
	t.Helper()
	p := models.Project{ClientID: clientID, Name: name, Summary: "six page site", Status: "active"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return &p
}

func seedMilestone(t *testing.T, db *gorm.DB, projectID uint, title, status string) *models.Milestone {
	t.Helper()
	m := models.Milestone{ProjectID: projectID, Title: title, Status: status, Position: 1}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("failed to seed milestone: %v", err)
	}
	return &m
}

// --------------------------------------------------
// Project listing and ownership
// --------------------------------------------------

func TestPortalProjects_ScopedToClient(t *testing.T) {
	r, db, cfg := newPortalRouter(t)

	alice := seedClient(t, db, "alice@client.test")
	bob := seedClient(t, db, "bob@client.test")
	mine := seedProject(t, db, alice.ID, "Bakery website")
	theirs := seedProject(t, db, bob.ID, "Gym landing page")

	session := sessionFor(t, cfg, alice.ID)

	w := doAuthJSON(r, http.MethodGet, "/api/portal/projects", session, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	projects := decodeBody(t, w)["projects"].([]any)
	assert.Len(t, projects, 1)
	assert.Equal(t, mine.Name, projects[0].(map[string]any)["name"])

	// Someone else's project reads as not found, not forbidden.
	w = doAuthJSON(r, http.MethodGet, fmt.Sprintf("/api/portal/projects/%d", theirs.ID), session, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "project_not_found", decodeBody(t, w)["error"])
}

func TestPortalProject_DetailBundlesTimeline(t *testing.T) {
	r, db, cfg := newPortalRouter(t)

	client := seedClient(t, db, "marina@client.test")
	p := seedProject(t, db, client.ID, "Bakery website")
	seedMilestone(t, db, p.ID, "Wireframes", "approved")
	seedMilestone(t, db, p.ID, "Visual design", "in_review")

	session := sessionFor(t, cfg, client.ID)

	w := doAuthJSON(r, http.MethodGet, fmt.Sprintf("/api/portal/projects/%d", p.ID), session, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, p.Name, body["project"].(map[string]any)["name"])
	assert.Len(t, body["milestones"].([]any), 2)
	assert.Empty(t, body["files"])
	assert.Empty(t, body["feedback"])
}

// --------------------------------------------------
// Milestone approval
// --------------------------------------------------

func TestApproveMilestone_OnlyFromReview(t *testing.T) {
	r, db, cfg := newPortalRouter(t)

	client := seedClient(t, db, "marina@client.test")
	p := seedProject(t, db, client.ID, "Bakery website")
	inReview := seedMilestone(t, db, p.ID, "Visual design", "in_review")
	pending := seedMilestone(t, db, p.ID, "Buildout", "pending")

	session := sessionFor(t, cfg, client.ID)

	w := doAuthJSON(r, http.MethodPost, fmt.Sprintf("/api/portal/milestones/%d/approve", inReview.ID), session, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "approved", body["status"])
	assert.NotNil(t, body["approvedAt"])

	// Approving twice is not a no-op; the state has moved on.
	w = doAuthJSON(r, http.MethodPost, fmt.Sprintf("/api/portal/milestones/%d/approve", inReview.ID), session, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decodeBody(t, w)["error"])

	w = doAuthJSON(r, http.MethodPost, fmt.Sprintf("/api/portal/milestones/%d/approve", pending.ID), session, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decodeBody(t, w)["error"])
}

func TestApproveMilestone_OtherClientsMilestoneHidden(t *testing.T) {
	r, db, cfg := newPortalRouter(t)

	alice := seedClient(t, db, "alice@client.test")
	bob := seedClient(t, db, "bob@client.test")
	p := seedProject(t, db, alice.ID, "Bakery website")
	m := seedMilestone(t, db, p.ID, "Visual design", "in_review")

	session := sessionFor(t, cfg, bob.ID)

	w := doAuthJSON(r, http.MethodPost, fmt.Sprintf("/api/portal/milestones/%d/approve", m.ID), session, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "milestone_not_found", decodeBody(t, w)["error"])

	var got models.Milestone
	db.First(&got, m.ID)
	assert.Equal(t, "in_review", got.Status)
}

// --------------------------------------------------
// Feedback
// --------------------------------------------------

func TestPostFeedback_CreatesNote(t *testing.T) {
	r, db, cfg := newPortalRouter(t)

	client := seedClient(t, db, "marina@client.test")
	p := seedProject(t, db, client.ID, "Bakery website")
	m := seedMilestone(t, db, p.ID, "Visual design", "in_review")

	session := sessionFor(t, cfg, client.ID)

	w := doAuthJSON(r, http.MethodPost, fmt.Sprintf("/api/portal/projects/%d/feedback", p.ID), session,
		gin.H{"body": "The header feels too tall on mobile.", "milestoneId": m.ID})
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "client", body["authorRole"])
	assert.Equal(t, client.Name, body["authorName"])
	assert.EqualValues(t, m.ID, body["milestoneId"])
}

func TestPostFeedback_Validation(t *testing.T) {
	r, db, cfg := newPortalRouter(t)

	client := seedClient(t, db, "marina@client.test")
	p := seedProject(t, db, client.ID, "Bakery website")

	other := seedClient(t, db, "bob@client.test")
	otherProject := seedProject(t, db, other.ID, "Gym landing page")
	foreign := seedMilestone(t, db, otherProject.ID, "Kickoff", "pending")

	session := sessionFor(t, cfg, client.ID)
	path := fmt.Sprintf("/api/portal/projects/%d/feedback", p.ID)

	w := doAuthJSON(r, http.MethodPost, path, session, gin.H{"body": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_body", decodeBody(t, w)["error"])

	w = doAuthJSON(r, http.MethodPost, path, session,
		gin.H{"body": "Looks great!", "milestoneId": foreign.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_milestone", decodeBody(t, w)["error"])
}
