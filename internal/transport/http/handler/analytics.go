package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/middleware"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

// AnalyticsHandler scopes every query to the authenticated client; the
// client id always comes from the session, never from the URL.
type AnalyticsHandler struct {
	analyticsService *app.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *app.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) sessionClient(c *gin.Context) (*model.Session, bool) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "session required")
		return nil, false
	}
	return session, true
}

func (h *AnalyticsHandler) AssistantActivity(c *gin.Context) {
	session, ok := h.sessionClient(c)
	if !ok {
		return
	}
	rows, err := h.analyticsService.AssistantActivity(c.Request.Context(), session.ClientID)
	if err != nil {
		respondServiceError(c, err, "assistant activity query failed")
		return
	}
	response.OK(c, gin.H{"activity": emptyIfNil(rows)})
}

func (h *AnalyticsHandler) MessageVolume(c *gin.Context) {
	session, ok := h.sessionClient(c)
	if !ok {
		return
	}
	rows, err := h.analyticsService.MessageVolume(c.Request.Context(), session.ClientID)
	if err != nil {
		respondServiceError(c, err, "message volume query failed")
		return
	}
	response.OK(c, gin.H{"volume": emptyIfNil(rows)})
}

func (h *AnalyticsHandler) AverageResponseTime(c *gin.Context) {
	session, ok := h.sessionClient(c)
	if !ok {
		return
	}
	avg, err := h.analyticsService.AverageResponseTime(c.Request.Context(), session.ClientID)
	if err != nil {
		respondServiceError(c, err, "response time query failed")
		return
	}
	response.OK(c, gin.H{"average_response_seconds": avg})
}

func (h *AnalyticsHandler) ThreadActivity(c *gin.Context) {
	session, ok := h.sessionClient(c)
	if !ok {
		return
	}
	rows, err := h.analyticsService.ThreadActivity(c.Request.Context(), session.ClientID)
	if err != nil {
		respondServiceError(c, err, "thread activity query failed")
		return
	}
	response.OK(c, gin.H{"activity": emptyIfNil(rows)})
}

func (h *AnalyticsHandler) MostActiveThreads(c *gin.Context) {
	session, ok := h.sessionClient(c)
	if !ok {
		return
	}
	rows, err := h.analyticsService.MostActiveThreads(c.Request.Context(), session.ClientID)
	if err != nil {
		respondServiceError(c, err, "active threads query failed")
		return
	}
	response.OK(c, gin.H{"threads": emptyIfNil(rows)})
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	session, ok := h.sessionClient(c)
	if !ok {
		return
	}
	summary, err := h.analyticsService.Summary(c.Request.Context(), session.ClientID)
	if err != nil {
		respondServiceError(c, err, "dashboard summary query failed")
		return
	}
	response.OK(c, gin.H{"summary": summary})
}

func (h *AnalyticsHandler) MessagesDaily(c *gin.Context) {
	session, ok := h.sessionClient(c)
	if !ok {
		return
	}
	rows, err := h.analyticsService.MessagesDaily(c.Request.Context(), session.ClientID)
	if err != nil {
		respondServiceError(c, err, "daily messages query failed")
		return
	}
	response.OK(c, gin.H{"messages": emptyIfNil(rows)})
}

func (h *AnalyticsHandler) MessagesHourly(c *gin.Context) {
	session, ok := h.sessionClient(c)
	if !ok {
		return
	}
	rows, err := h.analyticsService.MessagesHourly(c.Request.Context(), session.ClientID)
	if err != nil {
		respondServiceError(c, err, "hourly messages query failed")
		return
	}
	response.OK(c, gin.H{"messages": emptyIfNil(rows)})
}

// GroupUsage is admin-only and unscoped: it aggregates across all groups.
func (h *AnalyticsHandler) GroupUsage(c *gin.Context) {
	rows, err := h.analyticsService.GroupUsage(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "group usage query failed")
		return
	}
	response.OK(c, gin.H{"usage": emptyIfNil(rows)})
}
