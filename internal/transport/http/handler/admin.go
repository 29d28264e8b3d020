package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

type AdminHandler struct {
	adminService     *app.AdminService
	assistantService *app.AssistantService
}

type TemplateRequest struct {
	Name         string   `json:"name"`
	ClientGroup  string   `json:"client_group"`
	Instructions string   `json:"instructions"`
	Model        string   `json:"model"`
	Temperature  *float32 `json:"temperature"`
	TopP         *float32 `json:"top_p"`
	Avatar       string   `json:"avatar"`
	Voice        string   `json:"voice"`
	Background   string   `json:"background"`
	Language     string   `json:"language"`
}

type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	ClientGroup string `json:"client_group"`
	IsActive    *bool  `json:"is_active"`
}

func NewAdminHandler(adminService *app.AdminService, assistantService *app.AssistantService) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		assistantService: assistantService,
	}
}

func (h *AdminHandler) ListTemplates(c *gin.Context) {
	templates, err := h.adminService.ListTemplates()
	if err != nil {
		respondServiceError(c, err, "list templates failed")
		return
	}
	if templates == nil {
		templates = []model.Template{}
	}
	response.OK(c, gin.H{"templates": templates})
}

func (h *AdminHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	template, err := h.adminService.CreateTemplate(templateInput(req))
	if err != nil {
		respondServiceError(c, err, "create template failed")
		return
	}
	response.Created(c, gin.H{"template": template})
}

func (h *AdminHandler) UpdateTemplate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	template, err := h.adminService.UpdateTemplate(id, templateInput(req))
	if err != nil {
		respondServiceError(c, err, "update template failed")
		return
	}
	response.OK(c, gin.H{"template": template})
}

func (h *AdminHandler) DeleteTemplate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	if err := h.adminService.DeleteTemplate(id); err != nil {
		respondServiceError(c, err, "delete template failed")
		return
	}
	response.OK(c, gin.H{"message": "template deleted"})
}

func (h *AdminHandler) ListGroups(c *gin.Context) {
	groups, err := h.adminService.ListGroups()
	if err != nil {
		respondServiceError(c, err, "list groups failed")
		return
	}
	if groups == nil {
		groups = []model.Group{}
	}
	response.OK(c, gin.H{"groups": groups})
}

func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	group, err := h.adminService.CreateGroup(app.UpsertGroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err, "create group failed")
		return
	}
	response.Created(c, gin.H{"group": group})
}

func (h *AdminHandler) UpdateGroup(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	group, err := h.adminService.UpdateGroup(id, app.UpsertGroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err, "update group failed")
		return
	}
	response.OK(c, gin.H{"group": group})
}

func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	if err := h.adminService.DeleteGroup(id); err != nil {
		respondServiceError(c, err, "delete group failed")
		return
	}
	response.OK(c, gin.H{"message": "group deleted"})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		respondServiceError(c, err, "list users failed")
		return
	}
	if users == nil {
		users = []model.Client{}
	}
	response.OK(c, gin.H{"users": users})
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.adminService.CreateUser(app.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Role:        req.Role,
		ClientGroup: req.ClientGroup,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "create user failed")
		return
	}
	response.Created(c, gin.H{"user": user})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.adminService.UpdateUser(id, app.UpdateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Role:        req.Role,
		ClientGroup: req.ClientGroup,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "update user failed")
		return
	}
	response.OK(c, gin.H{"user": user})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	if err := h.adminService.DeleteUser(id); err != nil {
		respondServiceError(c, err, "delete user failed")
		return
	}
	response.OK(c, gin.H{"message": "user deleted"})
}

func (h *AdminHandler) ListAssistants(c *gin.Context) {
	assistants, err := h.assistantService.ListAll()
	if err != nil {
		respondServiceError(c, err, "list assistants failed")
		return
	}
	response.OK(c, gin.H{"assistants": emptyIfNil(assistants)})
}

func templateInput(req TemplateRequest) app.UpsertTemplateInput {
	return app.UpsertTemplateInput{
		Name:         req.Name,
		ClientGroup:  req.ClientGroup,
		Instructions: req.Instructions,
		Model:        req.Model,
		Temperature:  req.Temperature,
		TopP:         req.TopP,
		Avatar:       req.Avatar,
		Voice:        req.Voice,
		Background:   req.Background,
		Language:     req.Language,
	}
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid id")
		return 0, err
	}
	return uint(id), nil
}
