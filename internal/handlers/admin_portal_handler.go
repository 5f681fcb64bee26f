package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/httpresp"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/notify"
	"github.com/driftwoodweb/studio-api/internal/storage"
	"github.com/driftwoodweb/studio-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

var projectStatuses = map[string]bool{
	"active":   true,
	"archived": true,
}

// Approval is the client's act; the studio only moves work up to review.
var milestoneStudioStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"in_review":   true,
}

type AdminPortalHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	files  *storage.FileStore // nil when S3 is not configured
	notify *notify.Dispatcher
	audit  *audit.Dispatcher
}

func NewAdminPortalHandler(
	db *gorm.DB,
	cfg *config.Config,
	files *storage.FileStore,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
) *AdminPortalHandler {
	return &AdminPortalHandler{
		db:     db,
		cfg:    cfg,
		files:  files,
		notify: notifier,
		audit:  auditor,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company"`
}

type CreateProjectRequest struct {
	Name    string `json:"name" binding:"required"`
	Summary string `json:"summary"`
}

type UpdateProjectRequest struct {
	Name    *string `json:"name"`
	Summary *string `json:"summary"`
	Status  *string `json:"status"`
}

type CreateMilestoneRequest struct {
	Title    string `json:"title" binding:"required"`
	Details  string `json:"details"`
	Position *int   `json:"position"`
	DueAt    string `json:"dueAt"`
}

type UpdateMilestoneRequest struct {
	Title    *string `json:"title"`
	Details  *string `json:"details"`
	Status   *string `json:"status"`
	Position *int    `json:"position"`
	DueAt    *string `json:"dueAt"`
}

type StudioFeedbackRequest struct {
	Body        string `json:"body" binding:"required"`
	MilestoneID *uint  `json:"milestoneId"`
}

// ======================================================
// CLIENTS
// ======================================================

func (h *AdminPortalHandler) CreateClient(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name and a valid email are required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 100 {
		httperr.BadRequest(c, "invalid_name", "name must have between 2 and 100 characters")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailFormatValid(email) {
		httperr.BadRequest(c, "invalid_email", "a valid email address is required")
		return
	}

	var count int64
	h.db.Model(&models.PortalClient{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_taken", "a client with this email already exists")
		return
	}

	client := models.PortalClient{
		Name:    name,
		Email:   email,
		Company: strings.TrimSpace(req.Company),
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "client_create_failed", "could not create the client")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "client_created",
		Entity:    "portal_client",
		EntityID:  &client.ID,
		Metadata:  map[string]any{"email": client.Email},
	})

	httpresp.Created(c, client)
}

func (h *AdminPortalHandler) ListClients(c *gin.Context) {
	var clients []models.PortalClient
	if err := h.db.Order("created_at DESC").Find(&clients).Error; err != nil {
		httperr.Internal(c, "client_list_failed", "could not list clients")
		return
	}

	out := make([]gin.H, 0, len(clients))
	for _, cl := range clients {
		var projects int64
		h.db.Model(&models.Project{}).Where("client_id = ?", cl.ID).Count(&projects)

		out = append(out, gin.H{
			"id":        cl.ID,
			"name":      cl.Name,
			"email":     cl.Email,
			"company":   cl.Company,
			"createdAt": cl.CreatedAt,
			"projects":  projects,
		})
	}

	httpresp.List(c, out, int64(len(out)))
}

func (h *AdminPortalHandler) GetClient(c *gin.Context) {
	var client models.PortalClient
	if err := h.db.First(&client, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "client not found")
		return
	}

	var projects []models.Project
	h.db.
		Where("client_id = ?", client.ID).
		Order("created_at DESC").
		Find(&projects)

	httpresp.OK(c, gin.H{
		"client":   client,
		"projects": projects,
	})
}

// ======================================================
// INVITES
// ======================================================

func (h *AdminPortalHandler) Invite(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var client models.PortalClient
	if err := h.db.First(&client, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "client not found")
		return
	}

	link, err := createMagicLink(h.db, h.cfg, &client)
	if err != nil {
		httperr.Internal(c, "invite_failed", "could not create the invite link")
		return
	}

	h.notify.Dispatch(notify.MagicLink(client.Email, client.Name, link, magicLinkTTL))

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "portal_invite_sent",
		Entity:    "portal_client",
		EntityID:  &client.ID,
	})

	httpresp.OK(c, gin.H{"ok": true})
}

// ======================================================
// PROJECTS
// ======================================================

func (h *AdminPortalHandler) CreateProject(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var client models.PortalClient
	if err := h.db.First(&client, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "client not found")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "a project name is required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 150 {
		httperr.BadRequest(c, "invalid_name", "name must have between 2 and 150 characters")
		return
	}

	p := models.Project{
		ClientID: client.ID,
		Name:     name,
		Summary:  strings.TrimSpace(req.Summary),
		Status:   "active",
	}

	if err := h.db.Create(&p).Error; err != nil {
		httperr.Internal(c, "project_create_failed", "could not create the project")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "project_created",
		Entity:    "project",
		EntityID:  &p.ID,
		Metadata:  map[string]any{"client": client.ID},
	})

	httpresp.Created(c, p)
}

func (h *AdminPortalHandler) UpdateProject(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var p models.Project
	if err := h.db.First(&p, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "project_not_found", "project not found")
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "malformed request body")
		return
	}

	changes := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 || len(name) > 150 {
			httperr.BadRequest(c, "invalid_name", "name must have between 2 and 150 characters")
			return
		}
		changes["name"] = name
	}

	if req.Summary != nil {
		changes["summary"] = strings.TrimSpace(*req.Summary)
	}

	if req.Status != nil {
		if !projectStatuses[*req.Status] {
			httperr.BadRequest(c, "invalid_status", "status must be active or archived")
			return
		}
		changes["status"] = *req.Status
	}

	if len(changes) == 0 {
		httperr.BadRequest(c, "empty_update", "nothing to update")
		return
	}

	if err := h.db.Model(&p).Updates(changes).Error; err != nil {
		httperr.Internal(c, "project_update_failed", "could not update the project")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "project_updated",
		Entity:    "project",
		EntityID:  &p.ID,
		Metadata:  changes,
	})

	httpresp.OK(c, p)
}

// ======================================================
// MILESTONES
// ======================================================

// parseDueAt accepts RFC3339 or a plain day in the site timezone.
func parseDueAt(raw, tz string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, false
	}
	if t, err := parseDateQuery(raw, loc); err == nil {
		return &t, true
	}
	return nil, false
}

func (h *AdminPortalHandler) CreateMilestone(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var p models.Project
	if err := h.db.First(&p, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "project_not_found", "project not found")
		return
	}

	var req CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "a milestone title is required")
		return
	}

	title := strings.TrimSpace(req.Title)
	if len(title) < 2 || len(title) > 150 {
		httperr.BadRequest(c, "invalid_title", "title must have between 2 and 150 characters")
		return
	}

	dueAt, ok := parseDueAt(req.DueAt, h.cfg.SiteTimezone)
	if !ok {
		httperr.BadRequest(c, "invalid_due_date", "dueAt must be RFC3339 or YYYY-MM-DD")
		return
	}

	position := 0
	if req.Position != nil && *req.Position > 0 {
		position = *req.Position
	} else {
		// Append to the end of the board.
		var max int64
		h.db.Model(&models.Milestone{}).
			Where("project_id = ?", p.ID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&max)
		position = int(max) + 1
	}

	m := models.Milestone{
		ProjectID: p.ID,
		Title:     title,
		Details:   strings.TrimSpace(req.Details),
		Position:  position,
		DueAt:     dueAt,
		Status:    "pending",
	}

	if err := h.db.Create(&m).Error; err != nil {
		httperr.Internal(c, "milestone_create_failed", "could not create the milestone")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "milestone_created",
		Entity:    "milestone",
		EntityID:  &m.ID,
		Metadata:  map[string]any{"project": p.ID},
	})

	httpresp.Created(c, m)
}

func (h *AdminPortalHandler) UpdateMilestone(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var m models.Milestone
	if err := h.db.First(&m, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "milestone_not_found", "milestone not found")
		return
	}

	var req UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "malformed request body")
		return
	}

	changes := map[string]any{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < 2 || len(title) > 150 {
			httperr.BadRequest(c, "invalid_title", "title must have between 2 and 150 characters")
			return
		}
		changes["title"] = title
	}

	if req.Details != nil {
		changes["details"] = strings.TrimSpace(*req.Details)
	}

	if req.Status != nil {
		if !milestoneStudioStatuses[*req.Status] {
			httperr.BadRequest(c, "invalid_status", "status must be pending, in_progress or in_review")
			return
		}
		changes["status"] = *req.Status
		if m.Status == "approved" {
			// Reopening approved work clears the sign-off.
			changes["approved_at"] = nil
		}
	}

	if req.Position != nil {
		if *req.Position < 1 {
			httperr.BadRequest(c, "invalid_position", "position must be 1 or greater")
			return
		}
		changes["position"] = *req.Position
	}

	if req.DueAt != nil {
		dueAt, ok := parseDueAt(*req.DueAt, h.cfg.SiteTimezone)
		if !ok {
			httperr.BadRequest(c, "invalid_due_date", "dueAt must be RFC3339 or YYYY-MM-DD")
			return
		}
		changes["due_at"] = dueAt
	}

	if len(changes) == 0 {
		httperr.BadRequest(c, "empty_update", "nothing to update")
		return
	}

	if err := h.db.Model(&m).Updates(changes).Error; err != nil {
		httperr.Internal(c, "milestone_update_failed", "could not update the milestone")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "milestone_updated",
		Entity:    "milestone",
		EntityID:  &m.ID,
		Metadata:  changes,
	})

	httpresp.OK(c, m)
}

// ======================================================
// FILES
// ======================================================

func (h *AdminPortalHandler) UploadFile(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var p models.Project
	if err := h.db.First(&p, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "project_not_found", "project not found")
		return
	}

	f, ok := saveUpload(c, h.db, h.cfg, h.files, p.ID, "studio")
	if !ok {
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "file_uploaded",
		Entity:    "project_file",
		EntityID:  &f.ID,
		Metadata:  map[string]any{"project": p.ID, "fileName": f.FileName, "sizeBytes": f.SizeBytes},
	})

	httpresp.Created(c, gin.H{
		"id":          f.ID,
		"fileName":    f.FileName,
		"contentType": f.ContentType,
		"sizeBytes":   f.SizeBytes,
		"uploadedBy":  f.UploadedBy,
		"createdAt":   f.CreatedAt,
	})
}

// ======================================================
// FEEDBACK
// ======================================================

func (h *AdminPortalHandler) PostFeedback(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(uint)

	var p models.Project
	if err := h.db.First(&p, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "project_not_found", "project not found")
		return
	}

	var req StudioFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "a feedback body is required")
		return
	}

	body := strings.TrimSpace(req.Body)
	if len(body) < 2 || len(body) > 2000 {
		httperr.BadRequest(c, "invalid_body", "feedback is required (2 to 2000 characters)")
		return
	}

	if req.MilestoneID != nil {
		var count int64
		h.db.Model(&models.Milestone{}).
			Where("id = ? AND project_id = ?", *req.MilestoneID, p.ID).
			Count(&count)
		if count == 0 {
			httperr.BadRequest(c, "invalid_milestone", "milestone does not belong to this project")
			return
		}
	}

	var admin models.AdminUser
	h.db.First(&admin, adminID)

	note := models.FeedbackNote{
		ProjectID:   p.ID,
		MilestoneID: req.MilestoneID,
		AuthorRole:  "studio",
		AuthorName:  admin.Name,
		Body:        body,
	}

	if err := h.db.Create(&note).Error; err != nil {
		httperr.Internal(c, "feedback_failed", "could not save the feedback")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleAdmin,
		ActorID:   &adminID,
		Action:    "feedback_posted",
		Entity:    "feedback_note",
		EntityID:  &note.ID,
		Metadata:  map[string]any{"project": p.ID},
	})

	httpresp.Created(c, note)
}
