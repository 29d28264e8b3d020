package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/ai"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

// respondServiceError maps service sentinels onto the response convention:
// 404 for missing single resources, 400 for bad input, 502 for remote API
// failures, 500 otherwise. Raw driver and upstream error text never reaches
// the caller.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrAssistantNotFound),
		errors.Is(err, app.ErrTemplateNotFound),
		errors.Is(err, app.ErrClientNotFound),
		errors.Is(err, app.ErrGroupNotFound),
		errors.Is(err, app.ErrThreadNotFound),
		errors.Is(err, app.ErrFileNotFound),
		errors.Is(err, app.ErrBatchNotFound),
		errors.Is(err, app.ErrFunctionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrGroupExists),
		errors.Is(err, app.ErrEmailExists),
		errors.Is(err, app.ErrFunctionExists),
		errors.Is(err, app.ErrUnknownGroup),
		errors.Is(err, app.ErrNoFiles):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, tenant.ErrCredentialMissing):
		response.Error(c, http.StatusInternalServerError, response.CodeCredentialMissing, "no api credential configured for this group")
	case errors.Is(err, ai.ErrUpstream):
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, "assistants api request failed")
	case errors.Is(err, app.ErrInconsistentState):
		response.Error(c, http.StatusInternalServerError, response.CodeInconsistentState, "request left local and remote state out of sync")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
