package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gradus/internal/domain"
	"gradus/internal/service"
)

// ThesisHandler handles thesis, chapter and terminal requirement
// endpoints.
type ThesisHandler struct {
	thesisService   service.ThesisService
	progressService service.ProgressService
}

// NewThesisHandler creates a new ThesisHandler.
func NewThesisHandler(thesisService service.ThesisService, progressService service.ProgressService) *ThesisHandler {
	return &ThesisHandler{thesisService: thesisService, progressService: progressService}
}

// GetByID handles GET /api/v1/theses/:id
func (h *ThesisHandler) GetByID(c *gin.Context) {
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid thesis ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	thesis, err := h.thesisService.GetByID(c.Request.Context(), thesisID, actorID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, thesis)
}

// GetByGroup handles GET /api/v1/groups/:id/thesis
func (h *ThesisHandler) GetByGroup(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	thesis, err := h.thesisService.GetByGroup(c.Request.Context(), groupID, actorID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, thesis)
}

// Update handles PUT /api/v1/theses/:id
func (h *ThesisHandler) Update(c *gin.Context) {
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid thesis ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description"`
		Keywords    []string `json:"keywords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "title is required")
		return
	}

	thesis, err := h.thesisService.UpdateDetails(c.Request.Context(), &service.UpdateThesisInput{
		ThesisID:    thesisID,
		ActorID:     actorID,
		Title:       req.Title,
		Description: req.Description,
		Keywords:    req.Keywords,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, thesis)
}

// Progress handles GET /api/v1/theses/:id/progress
func (h *ThesisHandler) Progress(c *gin.Context) {
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid thesis ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	snapshot, err := h.progressService.Progress(c.Request.Context(), thesisID, actorID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, snapshot)
}

type chapterRequest struct {
	Number int      `json:"number" binding:"required"`
	Title  string   `json:"title" binding:"required"`
	Stages []string `json:"stages" binding:"required"`
}

// CreateChapter handles POST /api/v1/theses/:id/chapters
func (h *ThesisHandler) CreateChapter(c *gin.Context) {
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid thesis ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req chapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "number, title and stages are required")
		return
	}

	chapter, err := h.progressService.CreateChapter(c.Request.Context(), &service.ChapterInput{
		ThesisID: thesisID,
		ActorID:  actorID,
		Number:   req.Number,
		Title:    req.Title,
		Stages:   req.Stages,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, chapter)
}

// UpdateChapter handles PUT /api/v1/chapters/:id
func (h *ThesisHandler) UpdateChapter(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid chapter ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req chapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "number, title and stages are required")
		return
	}

	chapter, err := h.progressService.UpdateChapter(c.Request.Context(), chapterID, &service.ChapterInput{
		ActorID: actorID,
		Number:  req.Number,
		Title:   req.Title,
		Stages:  req.Stages,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, chapter)
}

// DeleteChapter handles DELETE /api/v1/chapters/:id
func (h *ThesisHandler) DeleteChapter(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid chapter ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.progressService.DeleteChapter(c.Request.Context(), chapterID, actorID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "chapter deleted"})
}

type submitWorkRequest struct {
	FileRef string `json:"file_ref" binding:"required"`
}

// SubmitChapter handles POST /api/v1/chapters/:id/submit
func (h *ThesisHandler) SubmitChapter(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid chapter ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req submitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file_ref is required")
		return
	}

	chapter, err := h.progressService.SubmitChapter(c.Request.Context(), chapterID, actorID, req.FileRef)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, chapter)
}

type reviewWorkRequest struct {
	Status domain.WorkStatus `json:"status" binding:"required"`
}

// ReviewChapter handles PUT /api/v1/chapters/:id/status
func (h *ThesisHandler) ReviewChapter(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid chapter ID")
		return
	}

	reviewerID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req reviewWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}

	chapter, err := h.progressService.ReviewChapter(c.Request.Context(), &service.ReviewWorkInput{
		ID:           chapterID,
		ReviewerID:   reviewerID,
		ReviewerRole: role,
		Status:       req.Status,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, chapter)
}

// CreateRequirement handles POST /api/v1/theses/:id/requirements
func (h *ThesisHandler) CreateRequirement(c *gin.Context) {
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid thesis ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Name  string `json:"name" binding:"required"`
		Stage string `json:"stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name and stage are required")
		return
	}

	requirement, err := h.progressService.CreateRequirement(c.Request.Context(), &service.RequirementInput{
		ThesisID: thesisID,
		ActorID:  actorID,
		Name:     req.Name,
		Stage:    req.Stage,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, requirement)
}

// DeleteRequirement handles DELETE /api/v1/requirements/:id
func (h *ThesisHandler) DeleteRequirement(c *gin.Context) {
	requirementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid requirement ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.progressService.DeleteRequirement(c.Request.Context(), requirementID, actorID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "requirement deleted"})
}

// SubmitRequirement handles POST /api/v1/requirements/:id/submit
func (h *ThesisHandler) SubmitRequirement(c *gin.Context) {
	requirementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid requirement ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req submitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file_ref is required")
		return
	}

	requirement, err := h.progressService.SubmitRequirement(c.Request.Context(), requirementID, actorID, req.FileRef)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, requirement)
}

// ReviewRequirement handles PUT /api/v1/requirements/:id/status
func (h *ThesisHandler) ReviewRequirement(c *gin.Context) {
	requirementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid requirement ID")
		return
	}

	reviewerID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req reviewWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}

	requirement, err := h.progressService.ReviewRequirement(c.Request.Context(), &service.ReviewWorkInput{
		ID:           requirementID,
		ReviewerID:   reviewerID,
		ReviewerRole: role,
		Status:       req.Status,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, requirement)
}

// ChapterFileURL handles GET /api/v1/chapters/:id/file-url
func (h *ThesisHandler) ChapterFileURL(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid chapter ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	presigned, err := h.progressService.ChapterFileURL(c.Request.Context(), chapterID, actorID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, presigned)
}

// RequirementFileURL handles GET /api/v1/requirements/:id/file-url
func (h *ThesisHandler) RequirementFileURL(c *gin.Context) {
	requirementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid requirement ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	presigned, err := h.progressService.RequirementFileURL(c.Request.Context(), requirementID, actorID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, presigned)
}

// UploadURL handles POST /api/v1/theses/:id/files/upload-url
func (h *ThesisHandler) UploadURL(c *gin.Context) {
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid thesis ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Filename    string `json:"filename" binding:"required"`
		ContentType string `json:"content_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "filename is required")
		return
	}

	presigned, err := h.progressService.UploadURL(c.Request.Context(), thesisID, actorID, req.Filename, req.ContentType)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, presigned)
}

// DownloadURL handles GET /api/v1/theses/:id/files/download-url
func (h *ThesisHandler) DownloadURL(c *gin.Context) {
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid thesis ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	key := c.Query("key")
	if key == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "key query parameter is required")
		return
	}

	presigned, err := h.progressService.DownloadURL(c.Request.Context(), thesisID, actorID, role, key)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, presigned)
}
