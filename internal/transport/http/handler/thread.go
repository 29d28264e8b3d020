package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

type ThreadHandler struct {
	threadService *app.ThreadService
}

type CreateThreadRequest struct {
	ThreadID string `json:"thread_id" binding:"required,max=64"`
	Title    string `json:"title"`
}

type AppendMessageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

func NewThreadHandler(threadService *app.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

func (h *ThreadHandler) Create(c *gin.Context) {
	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	thread, err := h.threadService.CreateThread(app.CreateThreadInput{
		AsstID:   c.Param("asstId"),
		ThreadID: req.ThreadID,
		Title:    req.Title,
	})
	if err != nil {
		respondServiceError(c, err, "create thread failed")
		return
	}
	response.Created(c, gin.H{"thread": thread})
}

func (h *ThreadHandler) List(c *gin.Context) {
	threads, err := h.threadService.ListThreads(c.Param("asstId"))
	if err != nil {
		respondServiceError(c, err, "list threads failed")
		return
	}
	if threads == nil {
		threads = []model.Thread{}
	}
	response.OK(c, gin.H{"threads": threads})
}

func (h *ThreadHandler) AppendMessage(c *gin.Context) {
	threadID, err := strconv.ParseUint(c.Param("threadId"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid thread id")
		return
	}

	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	message, err := h.threadService.AppendMessage(app.AppendMessageInput{
		ThreadID: uint(threadID),
		Role:     req.Role,
		Content:  req.Content,
	})
	if err != nil {
		respondServiceError(c, err, "append message failed")
		return
	}
	response.Created(c, gin.H{"message": message})
}

func (h *ThreadHandler) ListMessages(c *gin.Context) {
	threadID, err := strconv.ParseUint(c.Param("threadId"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid thread id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	messages, err := h.threadService.ListMessages(uint(threadID), limit)
	if err != nil {
		respondServiceError(c, err, "list messages failed")
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	response.OK(c, gin.H{"messages": messages})
}
