package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/middleware"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

// GroupHandler serves the group-scoped views: every endpoint reads the
// caller's group from the session, never from the request.
type GroupHandler struct {
	adminService     *app.AdminService
	assistantService *app.AssistantService
}

func NewGroupHandler(adminService *app.AdminService, assistantService *app.AssistantService) *GroupHandler {
	return &GroupHandler{
		adminService:     adminService,
		assistantService: assistantService,
	}
}

func (h *GroupHandler) ListUsers(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "session required")
		return
	}

	users, err := h.adminService.ListUsersByGroup(session.ClientGroup)
	if err != nil {
		respondServiceError(c, err, "list group users failed")
		return
	}
	if users == nil {
		users = []model.Client{}
	}
	response.OK(c, gin.H{"users": users})
}

func (h *GroupHandler) ListAssistants(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "session required")
		return
	}

	assistants, err := h.assistantService.ListByGroup(session.ClientGroup)
	if err != nil {
		respondServiceError(c, err, "list group assistants failed")
		return
	}
	response.OK(c, gin.H{"assistants": emptyIfNil(assistants)})
}

func (h *GroupHandler) ListTemplates(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "session required")
		return
	}

	templates, err := h.adminService.ListTemplatesByGroup(session.ClientGroup)
	if err != nil {
		respondServiceError(c, err, "list group templates failed")
		return
	}
	if templates == nil {
		templates = []model.Template{}
	}
	response.OK(c, gin.H{"templates": templates})
}
