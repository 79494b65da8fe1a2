package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gradus/internal/domain"
	"gradus/internal/service"
)

// AgendaHandler handles classification tree endpoints.
type AgendaHandler struct {
	agendaService service.AgendaService
}

// NewAgendaHandler creates a new AgendaHandler.
func NewAgendaHandler(agendaService service.AgendaService) *AgendaHandler {
	return &AgendaHandler{agendaService: agendaService}
}

// List handles GET /api/v1/agendas
func (h *AgendaHandler) List(c *gin.Context) {
	trees, err := h.agendaService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, trees)
}

// Get handles GET /api/v1/agendas/tree
func (h *AgendaHandler) Get(c *gin.Context) {
	agendaType := domain.AgendaType(c.Query("type"))
	department := c.Query("department")

	tree, err := h.agendaService.Get(c.Request.Context(), agendaType, department)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tree)
}

// Options handles GET /api/v1/agendas/options
//
// The path query parameter carries the already-picked labels joined by
// commas; the response lists the labels selectable one level deeper.
func (h *AgendaHandler) Options(c *gin.Context) {
	agendaType := domain.AgendaType(c.Query("type"))
	department := c.Query("department")

	var path []string
	if raw := c.Query("path"); raw != "" {
		path = strings.Split(raw, ",")
	}

	options, err := h.agendaService.Options(c.Request.Context(), agendaType, department, path)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, options)
}

// Upsert handles PUT /api/v1/agendas
func (h *AgendaHandler) Upsert(c *gin.Context) {
	var input service.UpsertAgendaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tree, err := h.agendaService.Upsert(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tree)
}
