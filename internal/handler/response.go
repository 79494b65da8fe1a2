package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gradus/internal/domain"
	"gradus/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response. Fields carries
// per-field validation messages when the error is a validation failure.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrGroupNotFound):
		return http.StatusNotFound, "GROUP_NOT_FOUND", "group not found"
	case errors.Is(err, domain.ErrSetNotFound):
		return http.StatusNotFound, "SET_NOT_FOUND", "proposal set not found"
	case errors.Is(err, domain.ErrTopicNotFound):
		return http.StatusNotFound, "TOPIC_NOT_FOUND", "topic not found in this set"
	case errors.Is(err, domain.ErrThesisNotFound):
		return http.StatusNotFound, "THESIS_NOT_FOUND", "thesis not found"
	case errors.Is(err, domain.ErrChapterNotFound):
		return http.StatusNotFound, "CHAPTER_NOT_FOUND", "chapter not found"
	case errors.Is(err, domain.ErrRequirementNotFound):
		return http.StatusNotFound, "REQUIREMENT_NOT_FOUND", "terminal requirement not found"
	case errors.Is(err, domain.ErrAgendaTreeNotFound):
		return http.StatusNotFound, "AGENDA_TREE_NOT_FOUND", "no agenda tree for this type and department"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrNotGroupMember):
		return http.StatusForbidden, "NOT_GROUP_MEMBER", "you are not a member of this group"
	case errors.Is(err, domain.ErrNotGroupLeader):
		return http.StatusForbidden, "NOT_GROUP_LEADER", "only the group leader may do this"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already registered"
	case errors.Is(err, domain.ErrDuplicateCode):
		return http.StatusConflict, "DUPLICATE_CODE", "group code already in use"
	case errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict, "ALREADY_MEMBER", "user is already a member of this group"
	case errors.Is(err, domain.ErrLeaderNotMember):
		return http.StatusBadRequest, "LEADER_NOT_MEMBER", "the group leader must be an enrolled member"
	case errors.Is(err, domain.ErrActiveSetExists):
		return http.StatusConflict, "ACTIVE_SET_EXISTS", "a proposal set is still in play; it must be fully rejected first"
	case errors.Is(err, domain.ErrSetLocked):
		return http.StatusConflict, "SET_LOCKED", "the set was submitted and can no longer be edited"
	case errors.Is(err, domain.ErrSetFull):
		return http.StatusConflict, "SET_FULL", "the set already holds the maximum number of topics"
	case errors.Is(err, domain.ErrStageMismatch):
		return http.StatusConflict, "STAGE_MISMATCH", "the item is not awaiting this review stage"
	case errors.Is(err, domain.ErrTopicNotApproved):
		return http.StatusConflict, "TOPIC_NOT_APPROVED", "only a fully approved topic can become the thesis"
	case errors.Is(err, domain.ErrThesisChosen):
		return http.StatusConflict, "THESIS_CHOSEN", "this group already promoted a topic to thesis"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts user ID and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (userID uuid.UUID, role domain.UserRole, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, "", false
	}
	return userID, middleware.GetRole(c), true
}

// HandleError maps an error and sends the appropriate error response.
// Validation failures carry their per-field messages.
func HandleError(c *gin.Context, err error) {
	var fields domain.FieldErrors
	if errors.As(err, &fields) {
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "VALIDATION_FAILED",
				Message: "validation failed",
				Fields:  fields,
			},
		})
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
