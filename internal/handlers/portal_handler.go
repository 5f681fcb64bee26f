package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/notify"
	"github.com/driftwoodweb/studio-api/internal/storage"
)

// ======================================================
// HANDLER
// ======================================================

const presignTTL = 15 * time.Minute

type PortalHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	files    *storage.FileStore // nil when S3 is not configured
	notify   *notify.Dispatcher
	audit    *audit.Dispatcher
	operator string
}

func NewPortalHandler(
	db *gorm.DB,
	cfg *config.Config,
	files *storage.FileStore,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
) *PortalHandler {
	return &PortalHandler{
		db:       db,
		cfg:      cfg,
		files:    files,
		notify:   notifier,
		audit:    auditor,
		operator: cfg.OperatorEmail,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PostFeedbackRequest struct {
	Body        string `json:"body"`
	MilestoneID *uint  `json:"milestoneId"`
}

// ======================================================
// HELPERS
// ======================================================

// ownProject loads a project only when it belongs to the caller.
func (h *PortalHandler) ownProject(c *gin.Context, projectID string) (*models.Project, bool) {
	clientID := c.MustGet(middleware.ContextClientID).(uint)

	var p models.Project
	if err := h.db.
		Where("id = ? AND client_id = ?", projectID, clientID).
		First(&p).Error; err != nil {
		httperr.NotFound(c, "project_not_found", "project not found")
		return nil, false
	}
	return &p, true
}

func (h *PortalHandler) fileView(c *gin.Context, f models.ProjectFile) gin.H {
	view := gin.H{
		"id":          f.ID,
		"fileName":    f.FileName,
		"contentType": f.ContentType,
		"sizeBytes":   f.SizeBytes,
		"uploadedBy":  f.UploadedBy,
		"createdAt":   f.CreatedAt,
	}

	if h.files != nil {
		if url, err := h.files.PresignGet(c.Request.Context(), f.ObjectKey, presignTTL); err == nil {
			view["url"] = url
		}
		if f.PreviewKey != "" {
			if url, err := h.files.PresignGet(c.Request.Context(), f.PreviewKey, presignTTL); err == nil {
				view["previewUrl"] = url
			}
		}
	}
	return view
}

// ======================================================
// PROJECTS
// ======================================================

func (h *PortalHandler) ListProjects(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextClientID).(uint)

	var projects []models.Project
	if err := h.db.
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		httperr.Internal(c, "project_list_failed", "could not list projects")
		return
	}

	out := make([]gin.H, 0, len(projects))
	for _, p := range projects {
		var total, approved int64
		h.db.Model(&models.Milestone{}).Where("project_id = ?", p.ID).Count(&total)
		h.db.Model(&models.Milestone{}).
			Where("project_id = ? AND status = ?", p.ID, "approved").
			Count(&approved)

		out = append(out, gin.H{
			"id":                 p.ID,
			"name":               p.Name,
			"summary":            p.Summary,
			"status":             p.Status,
			"createdAt":          p.CreatedAt,
			"milestonesTotal":    total,
			"milestonesApproved": approved,
		})
	}

	c.JSON(http.StatusOK, gin.H{"projects": out})
}

func (h *PortalHandler) GetProject(c *gin.Context) {
	p, ok := h.ownProject(c, c.Param("id"))
	if !ok {
		return
	}

	var milestones []models.Milestone
	h.db.
		Where("project_id = ?", p.ID).
		Order("position ASC, id ASC").
		Find(&milestones)

	var files []models.ProjectFile
	h.db.
		Where("project_id = ?", p.ID).
		Order("created_at DESC").
		Find(&files)

	fileViews := make([]gin.H, 0, len(files))
	for _, f := range files {
		fileViews = append(fileViews, h.fileView(c, f))
	}

	var feedback []models.FeedbackNote
	h.db.
		Where("project_id = ?", p.ID).
		Order("created_at ASC").
		Find(&feedback)

	c.JSON(http.StatusOK, gin.H{
		"project":    p,
		"milestones": milestones,
		"files":      fileViews,
		"feedback":   feedback,
	})
}

// ======================================================
// MILESTONE APPROVAL
// ======================================================

func (h *PortalHandler) ApproveMilestone(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextClientID).(uint)

	var m models.Milestone
	if err := h.db.First(&m, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "milestone_not_found", "milestone not found")
		return
	}

	var p models.Project
	if err := h.db.
		Where("id = ? AND client_id = ?", m.ProjectID, clientID).
		First(&p).Error; err != nil {
		httperr.NotFound(c, "milestone_not_found", "milestone not found")
		return
	}

	// Only work the studio put in review can be signed off.
	if m.Status != "in_review" {
		httperr.BadRequest(c, "invalid_state", "this milestone is not awaiting approval")
		return
	}

	now := time.Now()
	m.Status = "approved"
	m.ApprovedAt = &now

	if err := h.db.Save(&m).Error; err != nil {
		httperr.Internal(c, "milestone_update_failed", "could not approve the milestone")
		return
	}

	var client models.PortalClient
	h.db.First(&client, clientID)

	h.notify.Dispatch(notify.MilestoneApprovedAlert(h.operator, client.Name, p.Name, m.Title))

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleClient,
		ActorID:   &clientID,
		Action:    "milestone_approved",
		Entity:    "milestone",
		EntityID:  &m.ID,
	})

	c.JSON(http.StatusOK, m)
}

// ======================================================
// FILES
// ======================================================

// saveUpload runs the shared multipart flow: size cap, S3 put, webp
// preview for images, and the database row. It writes the error
// response itself and reports success through the bool.
func saveUpload(
	c *gin.Context,
	db *gorm.DB,
	cfg *config.Config,
	files *storage.FileStore,
	projectID uint,
	uploadedBy string,
) (*models.ProjectFile, bool) {
	if files == nil {
		httperr.ServiceUnavailable(c, "file_storage_disabled", "file storage is not configured")
		return nil, false
	}

	header, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "a file field is required")
		return nil, false
	}

	maxBytes := cfg.MaxUploadMB * 1024 * 1024
	if header.Size > maxBytes {
		httperr.BadRequest(c, "file_too_large", "the file exceeds the upload limit")
		return nil, false
	}

	src, err := header.Open()
	if err != nil {
		httperr.Internal(c, "upload_failed", "could not read the upload")
		return nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil || int64(len(data)) > maxBytes {
		httperr.BadRequest(c, "file_too_large", "the file exceeds the upload limit")
		return nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := storage.ObjectKey(projectID, header.Filename)
	if err := files.Put(c.Request.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		httperr.Internal(c, "upload_failed", "could not store the file")
		return nil, false
	}

	// Image uploads get a small webp preview next to the original.
	previewKey := ""
	if storage.IsImage(contentType) {
		if preview, err := storage.Preview(data); err == nil {
			pk := storage.PreviewKey(key)
			if err := files.Put(c.Request.Context(), pk, "image/webp", bytes.NewReader(preview), int64(len(preview))); err == nil {
				previewKey = pk
			}
		}
	}

	f := models.ProjectFile{
		ProjectID:   projectID,
		UploadedBy:  uploadedBy,
		FileName:    strings.TrimSpace(header.Filename),
		ObjectKey:   key,
		PreviewKey:  previewKey,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}

	if err := db.Create(&f).Error; err != nil {
		httperr.Internal(c, "upload_failed", "could not record the file")
		return nil, false
	}
	return &f, true
}

func (h *PortalHandler) UploadFile(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextClientID).(uint)

	p, ok := h.ownProject(c, c.Param("id"))
	if !ok {
		return
	}

	f, ok := saveUpload(c, h.db, h.cfg, h.files, p.ID, "client")
	if !ok {
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleClient,
		ActorID:   &clientID,
		Action:    "file_uploaded",
		Entity:    "project_file",
		EntityID:  &f.ID,
		Metadata:  map[string]any{"project": p.ID, "fileName": f.FileName, "sizeBytes": f.SizeBytes},
	})

	c.JSON(http.StatusCreated, h.fileView(c, *f))
}

// ======================================================
// FEEDBACK
// ======================================================

func (h *PortalHandler) PostFeedback(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextClientID).(uint)

	p, ok := h.ownProject(c, c.Param("id"))
	if !ok {
		return
	}

	var req PostFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "malformed request body")
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

	var client models.PortalClient
	h.db.First(&client, clientID)

	note := models.FeedbackNote{
		ProjectID:   p.ID,
		MilestoneID: req.MilestoneID,
		AuthorRole:  "client",
		AuthorName:  client.Name,
		Body:        body,
	}

	if err := h.db.Create(&note).Error; err != nil {
		httperr.Internal(c, "feedback_failed", "could not save the feedback")
		return
	}

	h.notify.Dispatch(notify.FeedbackAlert(h.operator, client.Name, p.Name))

	h.audit.Dispatch(audit.Event{
		ActorRole: audit.RoleClient,
		ActorID:   &clientID,
		Action:    "feedback_posted",
		Entity:    "feedback_note",
		EntityID:  &note.ID,
	})

	c.JSON(http.StatusCreated, note)
}
