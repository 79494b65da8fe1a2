package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gradus/internal/csvexport"
	"gradus/internal/domain"
	"gradus/internal/middleware"
	"gradus/internal/service"
)

// ProposalHandler handles topic proposal set endpoints.
type ProposalHandler struct {
	proposalService service.ProposalService
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(proposalService service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// CreateSet handles POST /api/v1/groups/:id/sets
func (h *ProposalHandler) CreateSet(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	set, err := h.proposalService.CreateSet(c.Request.Context(), groupID, actorID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, set)
}

// ListSets handles GET /api/v1/groups/:id/sets
func (h *ProposalHandler) ListSets(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	sets, err := h.proposalService.ListSets(c.Request.Context(), groupID, actorID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sets)
}

// CanStartSet handles GET /api/v1/groups/:id/sets/can-start
func (h *ProposalHandler) CanStartSet(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	canStart, err := h.proposalService.CanStartNewSet(c.Request.Context(), groupID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"can_start": canStart})
}

// GetSet handles GET /api/v1/sets/:id
func (h *ProposalHandler) GetSet(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid set ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	set, err := h.proposalService.GetSet(c.Request.Context(), setID, actorID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, set)
}

// ExportCSV handles GET /api/v1/sets/:id/export/csv
func (h *ProposalHandler) ExportCSV(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid set ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	set, group, err := h.proposalService.ExportSet(c.Request.Context(), setID, actorID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(group.Code, set.SetNumber)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	// Past this point the response is committed; stream errors can only
	// cut the download short.
	c.Writer.Write(csvexport.BOM)
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteSet(set); err != nil {
		return
	}
	w.Flush()
}

type topicRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	ProblemStatement string   `json:"problem_statement"`
	ExpectedOutcome  string   `json:"expected_outcome"`
	Keywords         []string `json:"keywords"`
}

// AddTopic handles POST /api/v1/sets/:id/topics
func (h *ProposalHandler) AddTopic(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid set ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "title is required")
		return
	}

	topic, err := h.proposalService.UpsertTopic(c.Request.Context(), &service.UpsertTopicInput{
		SetID:            setID,
		ActorID:          actorID,
		Title:            req.Title,
		Description:      req.Description,
		ProblemStatement: req.ProblemStatement,
		ExpectedOutcome:  req.ExpectedOutcome,
		Keywords:         req.Keywords,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, topic)
}

// UpdateTopic handles PUT /api/v1/sets/:id/topics/:topicID
func (h *ProposalHandler) UpdateTopic(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid set ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "title is required")
		return
	}

	topic, err := h.proposalService.UpsertTopic(c.Request.Context(), &service.UpsertTopicInput{
		SetID:            setID,
		ActorID:          actorID,
		TopicID:          c.Param("topicID"),
		Title:            req.Title,
		Description:      req.Description,
		ProblemStatement: req.ProblemStatement,
		ExpectedOutcome:  req.ExpectedOutcome,
		Keywords:         req.Keywords,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, topic)
}

// RemoveTopic handles DELETE /api/v1/sets/:id/topics/:topicID
func (h *ProposalHandler) RemoveTopic(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid set ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.proposalService.RemoveTopic(c.Request.Context(), setID, c.Param("topicID"), actorID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "topic removed"})
}

// SubmitSet handles POST /api/v1/sets/:id/submit
func (h *ProposalHandler) SubmitSet(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid set ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	set, err := h.proposalService.SubmitSet(c.Request.Context(), setID, actorID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, set)
}

// Decide handles POST /api/v1/sets/:id/topics/:topicID/decision
func (h *ProposalHandler) Decide(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid set ID")
		return
	}

	reviewerID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Stage      domain.ReviewStage    `json:"stage" binding:"required"`
		Status     domain.DecisionStatus `json:"status" binding:"required"`
		AgendaType domain.AgendaType     `json:"agenda_type"`
		Department string                `json:"department"`
		AgendaPath []string              `json:"agenda_path"`
		ESG        domain.ESGPillar      `json:"esg"`
		SDG        domain.SDGGoal        `json:"sdg"`
		Notes      string                `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "stage and status are required")
		return
	}

	if !domain.ValidReviewStages[req.Stage] {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "stage must be 'moderator', 'chair' or 'head'")
		return
	}
	if req.Status != domain.DecisionApproved && req.Status != domain.DecisionRejected {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status must be 'approved' or 'rejected'")
		return
	}

	set, err := h.proposalService.RecordDecision(c.Request.Context(), &service.DecisionInput{
		SetID:        setID,
		TopicID:      c.Param("topicID"),
		Stage:        req.Stage,
		Status:       req.Status,
		ReviewerID:   reviewerID,
		ReviewerRole: role,
		Classification: domain.Classification{
			AgendaType: req.AgendaType,
			Department: req.Department,
			AgendaPath: req.AgendaPath,
		},
		ESG:   req.ESG,
		SDG:   req.SDG,
		Notes: req.Notes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, set)
}

// Promote handles POST /api/v1/sets/:id/topics/:topicID/promote
func (h *ProposalHandler) Promote(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid set ID")
		return
	}

	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	thesis, err := h.proposalService.PromoteTopic(c.Request.Context(), setID, c.Param("topicID"), actorID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, thesis)
}

// ReviewQueue handles GET /api/v1/review/queue
func (h *ProposalHandler) ReviewQueue(c *gin.Context) {
	role := middleware.GetRole(c)
	offset, limit := parsePagination(c)

	sets, total, err := h.proposalService.ReviewQueue(c.Request.Context(), role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, sets, PagMeta{Total: total, Offset: offset, Limit: limit})
}
