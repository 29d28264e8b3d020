package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

type FunctionHandler struct {
	functionService *app.FunctionService
}

type AddFunctionRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}

func NewFunctionHandler(functionService *app.FunctionService) *FunctionHandler {
	return &FunctionHandler{functionService: functionService}
}

func (h *FunctionHandler) Add(c *gin.Context) {
	var req AddFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	fn, err := h.functionService.Add(c.Request.Context(), c.Param("assistantId"), app.AddFunctionInput{
		Name:        req.Name,
		Description: req.Description,
		Parameters:  req.Parameters,
	})
	if err != nil {
		respondServiceError(c, err, "add function failed")
		return
	}
	response.Created(c, gin.H{"function": fn})
}

func (h *FunctionHandler) List(c *gin.Context) {
	fns, err := h.functionService.List(c.Param("assistantId"))
	if err != nil {
		respondServiceError(c, err, "list functions failed")
		return
	}
	if fns == nil {
		fns = []model.AssistantFunction{}
	}
	response.OK(c, gin.H{"functions": fns})
}

func (h *FunctionHandler) Delete(c *gin.Context) {
	err := h.functionService.Delete(c.Request.Context(), c.Param("assistantId"), c.Param("functionName"))
	if err != nil {
		respondServiceError(c, err, "delete function failed")
		return
	}
	response.OK(c, gin.H{"message": "function deleted"})
}
