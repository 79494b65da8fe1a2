package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gradus/internal/service"
)

// GroupHandler handles thesis group endpoints.
type GroupHandler struct {
	groupService service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// Create handles POST /api/v1/groups
func (h *GroupHandler) Create(c *gin.Context) {
	actorID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), &input, actorID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, group)
}

// List handles GET /api/v1/groups
func (h *GroupHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	groups, total, err := h.groupService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, groups, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListMine handles GET /api/v1/groups/mine
func (h *GroupHandler) ListMine(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, groups)
}

// GetByID handles GET /api/v1/groups/:id
func (h *GroupHandler) GetByID(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), groupID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, group)
}

// Update handles PUT /api/v1/groups/:id
func (h *GroupHandler) Update(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	var input service.UpdateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), groupID, &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, group)
}

// Delete handles DELETE /api/v1/groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), groupID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "group deleted"})
}

// Members handles GET /api/v1/groups/:id/members
func (h *GroupHandler) Members(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	members, err := h.groupService.Members(c.Request.Context(), groupID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, members)
}

type memberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// AddMember handles POST /api/v1/groups/:id/members
func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.groupService.AddMember(c.Request.Context(), groupID, req.UserID, actorID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "member added"})
}

// RemoveMember handles DELETE /api/v1/groups/:id/members/:userID
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
		return
	}

	actorID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.groupService.RemoveMember(c.Request.Context(), groupID, userID, actorID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "member removed"})
}

// ChangeLeader handles PUT /api/v1/groups/:id/leader
func (h *GroupHandler) ChangeLeader(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	group, err := h.groupService.ChangeLeader(c.Request.Context(), groupID, req.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, group)
}
