package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/ai"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"invalid input", app.ErrInvalidInput, http.StatusBadRequest, response.CodeBadRequest},
		{"assistant not found", app.ErrAssistantNotFound, http.StatusNotFound, response.CodeNotFound},
		{"credential missing", tenant.ErrCredentialMissing, http.StatusInternalServerError, response.CodeCredentialMissing},
		{"upstream failure", fmt.Errorf("%w: create assistant: boom", ai.ErrUpstream), http.StatusBadGateway, response.CodeUpstreamFailure},
		{"inconsistent state", fmt.Errorf("%w: vector store vs_1 unrecorded", app.ErrInconsistentState), http.StatusInternalServerError, response.CodeInconsistentState},
		{"unknown error", errors.New("driver exploded"), http.StatusInternalServerError, response.CodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondServiceError(c, tc.err, "fallback message")

			assert.Equal(t, tc.wantStatus, recorder.Code)
			var body response.APIResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

// Raw driver text must never reach the caller on the fallback path.
func TestRespondServiceErrorHidesInternalText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	respondServiceError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"), "create assistant failed")

	var body response.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "create assistant failed", body.Message)
	assert.NotContains(t, body.Message, "10.0.0.5")
}
