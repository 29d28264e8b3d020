package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/ai"
	appsvc "github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/bootstrap"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/config"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
)

// stubAssistantAPI hands out sequential identifiers and never fails.
type stubAssistantAPI struct {
	created int
}

func (s *stubAssistantAPI) CreateAssistant(context.Context, string, ai.AssistantSpec) (string, error) {
	s.created++
	return fmt.Sprintf("asst_%d", s.created), nil
}

func (s *stubAssistantAPI) UpdateAssistant(context.Context, string, string, ai.AssistantSpec) error {
	return nil
}

func (s *stubAssistantAPI) DeleteAssistant(context.Context, string, string) error { return nil }

func (s *stubAssistantAPI) GetTools(context.Context, string, string) ([]openai.AssistantTool, error) {
	return nil, nil
}

func (s *stubAssistantAPI) SetTools(context.Context, string, string, []openai.AssistantTool) error {
	return nil
}

func (s *stubAssistantAPI) CreateVectorStore(context.Context, string, string) (string, error) {
	return "vs_1", nil
}

func (s *stubAssistantAPI) UploadFile(context.Context, string, string, []byte) (string, error) {
	return "file_1", nil
}

func (s *stubAssistantAPI) AttachFileToVectorStore(context.Context, string, string, string) (string, error) {
	return "vsf_1", nil
}

func (s *stubAssistantAPI) WaitForFileIndexed(context.Context, string, string, string) error {
	return nil
}

func (s *stubAssistantAPI) DeleteVectorStoreFile(context.Context, string, string, string) error {
	return nil
}

func (s *stubAssistantAPI) AttachVectorStore(context.Context, string, string, string) error {
	return nil
}

type dropPublisher struct{}

func (dropPublisher) Publish(context.Context, any) error { return nil }

func newTestApp(t *testing.T) (*bootstrap.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Client{},
		&model.Group{},
		&model.Template{},
		&model.Assistant{},
		&model.Thread{},
		&model.Message{},
		&model.File{},
		&model.AssistantFile{},
		&model.AssistantFunction{},
		&model.Session{},
	))

	cfg := &config.Config{}
	cfg.App.Name = "reallyavatar-dashboard"
	cfg.App.Env = "test"
	cfg.App.GinMode = "test"
	cfg.Auth.SessionSecret = "test-secret"
	cfg.Auth.SessionTTLHours = 1
	cfg.OpenAI.DefaultModel = "gpt-4o-mini"
	cfg.OpenAI.TimeoutSeconds = 1
	cfg.Uploads.Dir = t.TempDir()

	app := &bootstrap.App{
		Config:       cfg,
		MySQL:        db,
		Publisher:    dropPublisher{},
		AssistantAPI: &stubAssistantAPI{},
		Resolver:     tenant.NewResolver(map[string]string{"acme": "sk-acme"}),
		StartedAt:    time.Now(),
	}
	return app, db
}

func seedLoginClient(t *testing.T, db *gorm.DB) *model.Client {
	t.Helper()
	hash, err := appsvc.HashPassword("p")
	require.NoError(t, err)
	client := &model.Client{
		Email:        "a@x.com",
		PasswordHash: hash,
		Name:         "Alice",
		Role:         "user",
		ClientGroup:  "acme",
		IsActive:     true,
	}
	require.NoError(t, db.Create(client).Error)
	require.NoError(t, db.Create(&model.Group{Name: "acme"}).Error)
	return client
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

type payload = map[string]any

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	status, env := doJSON(t, router, http.MethodPost, "/login", "", payload{"email": "a@x.com", "password": "p"})
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRouterRejectsMissingToken(t *testing.T) {
	app, _ := newTestApp(t)
	router := NewRouter(app)

	status, _ := doJSON(t, router, http.MethodGet, "/asst_list/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAssistantLifecycleOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	router := NewRouter(app)
	client := seedLoginClient(t, db)
	token := login(t, router)

	createPath := fmt.Sprintf("/create_assistant/%d", client.ID)
	status, env := doJSON(t, router, http.MethodPost, createPath, token, payload{
		"name":         "Bot",
		"instructions": "Help users",
	})
	require.Equal(t, http.StatusCreated, status)

	var created struct {
		Assistant model.Assistant `json:"assistant"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.Assistant.AsstID)
	assert.Equal(t, client.ID, created.Assistant.ClientID)

	listPath := fmt.Sprintf("/asst_list/%d", client.ID)
	status, env = doJSON(t, router, http.MethodGet, listPath, token, nil)
	require.Equal(t, http.StatusOK, status)
	var listed struct {
		Assistants []model.Assistant `json:"assistants"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed.Assistants, 1)
	assert.Equal(t, created.Assistant.AsstID, listed.Assistants[0].AsstID)

	status, _ = doJSON(t, router, http.MethodPut, "/softdelete_asst/"+created.Assistant.AsstID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, router, http.MethodGet, listPath, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Empty(t, listed.Assistants)
}

func TestEmptyListReturnsArray(t *testing.T) {
	app, db := newTestApp(t)
	router := NewRouter(app)
	client := seedLoginClient(t, db)
	token := login(t, router)

	status, env := doJSON(t, router, http.MethodGet, fmt.Sprintf("/asst_list/%d", client.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"assistants":[]`)
}

func TestDownloadUsesSanitizedFilename(t *testing.T) {
	app, db := newTestApp(t)
	router := NewRouter(app)
	seedLoginClient(t, db)
	token := login(t, router)
	require.NoError(t, os.WriteFile(filepath.Join(app.Config.Uploads.Dir, "notes.txt"), []byte("x"), 0o644))

	// the raw segment carries a leading space; the attachment name must not
	req := httptest.NewRequest(http.MethodGet, "/download/%20notes.txt", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, `attachment; filename="notes.txt"`, recorder.Header().Get("Content-Disposition"))
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, db := newTestApp(t)
	router := NewRouter(app)
	seedLoginClient(t, db)
	token := login(t, router)

	status, _ := doJSON(t, router, http.MethodGet, "/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdminCanManageUsers(t *testing.T) {
	app, db := newTestApp(t)
	router := NewRouter(app)
	client := seedLoginClient(t, db)
	require.NoError(t, db.Model(client).Update("role", "admin").Error)
	token := login(t, router)

	status, _ := doJSON(t, router, http.MethodPost, "/admin/users", token, payload{
		"email":        "b@x.com",
		"password":     "p2",
		"name":         "Bob",
		"client_group": "acme",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := doJSON(t, router, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusOK, status)
	var listed struct {
		Users []model.Client `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed.Users, 2)
}

func TestLogoutEndsSession(t *testing.T) {
	app, db := newTestApp(t)
	router := NewRouter(app)
	seedLoginClient(t, db)
	token := login(t, router)

	status, _ := doJSON(t, router, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, router, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginValidation(t *testing.T) {
	app, db := newTestApp(t)
	router := NewRouter(app)
	seedLoginClient(t, db)

	status, _ := doJSON(t, router, http.MethodPost, "/login", "", payload{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, router, http.MethodPost, "/login", "", payload{"email": "not-an-email", "password": "p"})
	assert.Equal(t, http.StatusBadRequest, status)
}
