package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/ai"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newTestResolver() *tenant.Resolver {
	return tenant.NewResolver(map[string]string{"acme": "sk-acme"})
}

func seedClient(t *testing.T, db *gorm.DB, email, password, group string, active bool) *model.Client {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	client := &model.Client{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         "user",
		ClientGroup:  group,
		IsActive:     active,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func seedAssistant(t *testing.T, db *gorm.DB, clientID uint, asstID string) *model.Assistant {
	t.Helper()
	assistant := &model.Assistant{
		ClientID:    clientID,
		AsstID:      asstID,
		Name:        "Bot",
		Model:       "gpt-4o-mini",
		Temperature: 1.0,
		TopP:        1.0,
	}
	require.NoError(t, db.Create(assistant).Error)
	return assistant
}

// mockAssistantAPI records calls and serves canned identifiers. Any of the
// err fields forces that call to fail.
type mockAssistantAPI struct {
	mu sync.Mutex

	createCalls  int
	deleteCalls  int
	updateCalls  int
	storeCalls   int
	uploadCalls  int
	attachCalls  int
	waitCalls    int
	tools        []openai.AssistantTool
	lastSpec     ai.AssistantSpec
	deletedAssts []string

	// Invoked while the remote call is in flight, so tests can race the
	// local write against concurrent mutations.
	onUpdate   func()
	onSetTools func()

	createErr error
	updateErr error
	deleteErr error
	toolsErr  error
	storeErr  error
	uploadErr error
	waitErr   error
	vsFileErr error
}

func (m *mockAssistantAPI) CreateAssistant(_ context.Context, _ string, spec ai.AssistantSpec) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.createCalls++
	m.lastSpec = spec
	return fmt.Sprintf("asst_%d", m.createCalls), nil
}

func (m *mockAssistantAPI) UpdateAssistant(_ context.Context, _, _ string, spec ai.AssistantSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updateCalls++
	m.lastSpec = spec
	if m.onUpdate != nil {
		m.onUpdate()
	}
	return nil
}

func (m *mockAssistantAPI) DeleteAssistant(_ context.Context, _, asstID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleteCalls++
	m.deletedAssts = append(m.deletedAssts, asstID)
	return nil
}

func (m *mockAssistantAPI) GetTools(_ context.Context, _, _ string) ([]openai.AssistantTool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.toolsErr != nil {
		return nil, m.toolsErr
	}
	return append([]openai.AssistantTool(nil), m.tools...), nil
}

func (m *mockAssistantAPI) SetTools(_ context.Context, _, _ string, tools []openai.AssistantTool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.toolsErr != nil {
		return m.toolsErr
	}
	m.tools = append([]openai.AssistantTool(nil), tools...)
	if m.onSetTools != nil {
		m.onSetTools()
	}
	return nil
}

func (m *mockAssistantAPI) CreateVectorStore(_ context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return "", m.storeErr
	}
	m.storeCalls++
	return fmt.Sprintf("vs_%d", m.storeCalls), nil
}

func (m *mockAssistantAPI) UploadFile(_ context.Context, _, _ string, _ []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploadCalls++
	return fmt.Sprintf("file_%d", m.uploadCalls), nil
}

func (m *mockAssistantAPI) AttachFileToVectorStore(_ context.Context, _, _, fileID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachCalls++
	return "vsf_" + fileID, nil
}

func (m *mockAssistantAPI) WaitForFileIndexed(_ context.Context, _, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.waitErr != nil {
		return m.waitErr
	}
	m.waitCalls++
	return nil
}

func (m *mockAssistantAPI) DeleteVectorStoreFile(_ context.Context, _, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vsFileErr
}

func (m *mockAssistantAPI) AttachVectorStore(_ context.Context, _, _, _ string) error {
	return nil
}

// fakePublisher captures jobs instead of touching a broker.
type fakePublisher struct {
	jobs []any
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, job any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}
