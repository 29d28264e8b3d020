package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

type AssistantHandler struct {
	assistantService *app.AssistantService
}

type CreateAssistantRequest struct {
	TemplateID   uint     `json:"template_id"`
	Name         string   `json:"name" binding:"required,max=128"`
	Instructions string   `json:"instructions"`
	Model        string   `json:"model"`
	Temperature  *float32 `json:"temperature"`
	TopP         *float32 `json:"top_p"`
	Avatar       string   `json:"avatar"`
	Voice        string   `json:"voice"`
	Background   string   `json:"background"`
	Language     string   `json:"language"`
}

type UpdateAssistantRequest struct {
	Name         string   `json:"name"`
	Instructions string   `json:"instructions"`
	Model        string   `json:"model"`
	Temperature  *float32 `json:"temperature"`
	TopP         *float32 `json:"top_p"`
	Avatar       string   `json:"avatar"`
	Voice        string   `json:"voice"`
	Background   string   `json:"background"`
	Language     string   `json:"language"`
}

type ToggleFileSearchRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func NewAssistantHandler(assistantService *app.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

func (h *AssistantHandler) Create(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("client_id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid client id")
		return
	}

	var req CreateAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	assistant, err := h.assistantService.Create(c.Request.Context(), app.CreateAssistantInput{
		ClientID:     uint(clientID),
		TemplateID:   req.TemplateID,
		Name:         req.Name,
		Instructions: req.Instructions,
		Model:        req.Model,
		Temperature:  req.Temperature,
		TopP:         req.TopP,
		Avatar:       req.Avatar,
		Voice:        req.Voice,
		Background:   req.Background,
		Language:     req.Language,
	})
	if err != nil {
		respondServiceError(c, err, "create assistant failed")
		return
	}
	response.Created(c, gin.H{"assistant": assistant})
}

func (h *AssistantHandler) Update(c *gin.Context) {
	var req UpdateAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	assistant, err := h.assistantService.Update(c.Request.Context(), c.Param("asst_id"), app.UpdateAssistantInput{
		Name:         req.Name,
		Instructions: req.Instructions,
		Model:        req.Model,
		Temperature:  req.Temperature,
		TopP:         req.TopP,
		Avatar:       req.Avatar,
		Voice:        req.Voice,
		Background:   req.Background,
		Language:     req.Language,
	})
	if err != nil {
		respondServiceError(c, err, "update assistant failed")
		return
	}
	response.OK(c, gin.H{"assistant": assistant})
}

func (h *AssistantHandler) SoftDelete(c *gin.Context) {
	if err := h.assistantService.SoftDelete(c.Param("asst_id")); err != nil {
		respondServiceError(c, err, "soft delete assistant failed")
		return
	}
	response.OK(c, gin.H{"message": "assistant deleted"})
}

func (h *AssistantHandler) ToggleFileSearch(c *gin.Context) {
	var req ToggleFileSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	assistant, err := h.assistantService.ToggleFileSearch(c.Request.Context(), c.Param("asst_id"), *req.Enabled)
	if err != nil {
		respondServiceError(c, err, "toggle file search failed")
		return
	}
	response.OK(c, gin.H{"assistant": assistant})
}

func (h *AssistantHandler) List(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid client id")
		return
	}

	assistants, err := h.assistantService.ListByClient(uint(clientID))
	if err != nil {
		respondServiceError(c, err, "list assistants failed")
		return
	}
	response.OK(c, gin.H{"assistants": emptyIfNil(assistants)})
}

// ListAvatars serves the avatar frontend: the same rows reduced to the fields
// the player needs.
func (h *AssistantHandler) ListAvatars(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid client id")
		return
	}

	assistants, err := h.assistantService.ListByClient(uint(clientID))
	if err != nil {
		respondServiceError(c, err, "list avatars failed")
		return
	}

	avatars := make([]gin.H, 0, len(assistants))
	for _, assistant := range assistants {
		avatars = append(avatars, gin.H{
			"asst_id":    assistant.AsstID,
			"name":       assistant.Name,
			"avatar":     assistant.Avatar,
			"voice":      assistant.Voice,
			"background": assistant.Background,
			"language":   assistant.Language,
		})
	}
	response.OK(c, gin.H{"avatars": avatars})
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
