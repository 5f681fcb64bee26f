package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	domain "github.com/driftwoodweb/studio-api/internal/domain/proposal"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/httpresp"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/notify"
	"github.com/driftwoodweb/studio-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ProposalHandler struct {
	db       *gorm.DB
	notify   *notify.Dispatcher
	audit    *audit.Dispatcher
	operator string
}

func NewProposalHandler(
	db *gorm.DB,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
	operator string,
) *ProposalHandler {
	return &ProposalHandler{
		db:       db,
		notify:   notifier,
		audit:    auditor,
		operator: operator,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateProposalRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	ProjectType string `json:"projectType"`
	BudgetRange string `json:"budgetRange"`
	Timeline    string `json:"timeline"`
	Description string `json:"description"`
}

type UpdateProposalRequest struct {
	Status string `json:"status" binding:"required"`
}

var proposalStatuses = map[string]bool{
	"new":      true,
	"reviewed": true,
	"archived": true,
}

// ======================================================
// CREATE (public)
// ======================================================

func (h *ProposalHandler) Create(c *gin.Context) {
	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "malformed request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 100 {
		httperr.BadRequest(c, "invalid_name", "name is required (2 to 100 characters)")
		return
	}

	email := strings.TrimSpace(req.Email)
	if !validators.IsEmailFormatValid(email) {
		httperr.BadRequest(c, "invalid_email", "a valid email address is required")
		return
	}

	company := strings.TrimSpace(req.Company)
	if len(company) > 120 {
		httperr.BadRequest(c, "invalid_company", "company is limited to 120 characters")
		return
	}

	if !domain.ValidProjectType(req.ProjectType) {
		httperr.BadRequest(c, "invalid_project_type", "unknown project type")
		return
	}
	if !domain.ValidBudgetRange(req.BudgetRange) {
		httperr.BadRequest(c, "invalid_budget_range", "unknown budget range")
		return
	}
	if !domain.ValidTimeline(req.Timeline) {
		httperr.BadRequest(c, "invalid_timeline", "unknown timeline")
		return
	}

	description := strings.TrimSpace(req.Description)
	if len(description) < 10 || len(description) > 3000 {
		httperr.BadRequest(c, "invalid_description", "description is required (10 to 3000 characters)")
		return
	}

	score := domain.Score(req.ProjectType, req.BudgetRange, req.Timeline)

	p := models.Proposal{
		Name:        name,
		Email:       email,
		Company:     company,
		ProjectType: req.ProjectType,
		BudgetRange: req.BudgetRange,
		Timeline:    req.Timeline,
		Description: description,
		Score:       score,
		Priority:    domain.Priority(score),
		Status:      "new",
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		httperr.Internal(c, "storage_unavailable", "could not save the proposal, please try again")
		return
	}

	h.notify.Dispatch(notify.ProposalAlert(h.operator, p.Name, p.Email, p.ProjectType, p.Priority, p.Score))

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleSystem,
		Action:    "proposal_received",
		Entity:    "proposal",
		EntityID:  &p.ID,
		Metadata:  map[string]any{"score": p.Score, "priority": p.Priority},
	})

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": p.ID})
}

// ======================================================
// LIST (admin)
// ======================================================

func (h *ProposalHandler) List(c *gin.Context) {
	_, limit, offset := pagination(c)

	q := h.db.Model(&models.Proposal{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		q = q.Where("priority = ?", priority)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "proposal_count_failed", "could not count proposals")
		return
	}

	var rows []models.Proposal
	if err := q.
		Order("score DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "proposal_list_failed", "could not list proposals")
		return
	}

	httpresp.List(c, rows, total)
}

// ======================================================
// UPDATE STATUS (admin)
// ======================================================

func (h *ProposalHandler) UpdateStatus(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var req UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil || !proposalStatuses[req.Status] {
		httperr.BadRequest(c, "invalid_status", "status must be new, reviewed or archived")
		return
	}

	var p models.Proposal
	if err := h.db.First(&p, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "proposal_not_found", "proposal not found")
		return
	}

	p.Status = req.Status
	if err := h.db.Save(&p).Error; err != nil {
		httperr.Internal(c, "proposal_update_failed", "could not update the proposal")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "proposal_status_changed",
		Entity:    "proposal",
		EntityID:  &p.ID,
		Metadata:  map[string]any{"status": p.Status},
	})

	httpresp.OK(c, p)
}
